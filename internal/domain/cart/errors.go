// internal/domain/cart/errors.go
package cart

import "github.com/your-org/bookstore-backend/internal/pkg/apperr"

var (
	// ErrCartNotFound is returned when the user has no cart yet.
	ErrCartNotFound = apperr.NotFound("cart not found")

	// ErrLineItemNotFound is returned when a line item does not exist in the
	// user's cart; deleting twice hits this, never a silent success.
	ErrLineItemNotFound = apperr.NotFound("cart item not found")

	// ErrInvalidQuantity is returned for non-positive quantities.
	ErrInvalidQuantity = apperr.Validation("invalid quantity")

	// ErrInsufficientStock is returned when the cumulative requested quantity
	// would exceed the book's available stock.
	ErrInsufficientStock = apperr.BusinessRule("not enough stock")

	// ErrRemoveExceedsQuantity is returned when a removal would take the line
	// item to zero or below; removing the last units must go through delete.
	ErrRemoveExceedsQuantity = apperr.BusinessRule("removal quantity must be less than item quantity")
)
