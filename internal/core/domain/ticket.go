package domain

// Ticket is a minted purchase record bound to one event and one buyer.
// Tickets are never constructed locally; they only ever come back from
// a successful buyTicket call against the ledger.
type Ticket struct {
	ID      uint64
	EventID uint64
	Owner   Principal
}
