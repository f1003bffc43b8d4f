package domain

// Event represents an offering for sale on the marketplace.
// The ID is assigned by the remote ledger and immutable once set.
type Event struct {
	ID          uint64
	Name        string
	Date        string // calendar date, YYYY-MM-DD
	City        string
	Category    Category
	PriceE8s    uint64 // smallest currency unit, 10^-8 of the display unit
	Description string
	Image       string // URL, empty when absent
	Organizer   Principal
	Status      EventStatus
}

// EventStatus is the moderation lifecycle state of an event.
// Pending events are visible only in the admin review queue.
// Approved and Rejected are terminal; a rejected event cannot be
// resubmitted, a new event must be created instead.
type EventStatus string

const (
	EventStatusPending  EventStatus = "pending"
	EventStatusApproved EventStatus = "approved"
	EventStatusRejected EventStatus = "rejected"
)

// Purchasable reports whether tickets for the event can be bought.
func (e *Event) Purchasable() bool {
	return e.Status == EventStatusApproved
}

// Category is one of the fixed marketplace categories.
type Category string

const (
	CategoryConcerts  Category = "Concerts"
	CategoryTheaters  Category = "Theaters"
	CategoryFestivals Category = "Festivals"
	CategorySports    Category = "Sports"
	CategorySeminars  Category = "Seminars"
)

// Categories lists all known categories in display order.
func Categories() []Category {
	return []Category{
		CategoryConcerts,
		CategoryTheaters,
		CategoryFestivals,
		CategorySports,
		CategorySeminars,
	}
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}
