package ledger

import (
	"fmt"
	"strings"

	"github.com/vietddude/boxoffice/internal/core/domain"
)

// mapRemoteError folds a transport error into the domain failure
// taxonomy while keeping the original message for display. Errors with
// no recognized phrasing pass through wrapped, so transport failures
// stay distinguishable from ledger rejections.
func mapRemoteError(method string, err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not authenticated"), strings.Contains(msg, "anonymous caller"):
		return fmt.Errorf("%s: %w: %v", method, domain.ErrNotAuthenticated, err)
	case strings.Contains(msg, "unauthorized"), strings.Contains(msg, "admin only"),
		strings.Contains(msg, "permissiondenied"):
		return fmt.Errorf("%s: %w: %v", method, domain.ErrNotAuthorized, err)
	case strings.Contains(msg, "not pending"), strings.Contains(msg, "already approved"),
		strings.Contains(msg, "already rejected"):
		return fmt.Errorf("%s: %w: %v", method, domain.ErrEventNotPending, err)
	case strings.Contains(msg, "not approved"), strings.Contains(msg, "not purchasable"):
		return fmt.Errorf("%s: %w: %v", method, domain.ErrEventNotApproved, err)
	case strings.Contains(msg, "not found"):
		return fmt.Errorf("%s: %w: %v", method, domain.ErrEventNotFound, err)
	}
	return fmt.Errorf("%s: %w", method, err)
}
