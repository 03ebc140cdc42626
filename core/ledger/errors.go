package ledger

// Typed error classes so callers can react to a whole category without
// matching message text.

// InvalidError rejects bad input or a bad state for the requested operation.
type InvalidError string

// NotFoundError means the referenced beat id has no record.
type NotFoundError string

// UnauthorizedError means the caller is not the owner required by the operation.
type UnauthorizedError string

func (e InvalidError) Error() string      { return string(e) }
func (e NotFoundError) Error() string     { return string(e) }
func (e UnauthorizedError) Error() string { return string(e) }

// Ledger errors - keep in alphabetic order.
var (
	ErrBeatNotFound      = NotFoundError("beat not found")
	ErrEmptyContentRef   = InvalidError("content reference is required")
	ErrEmptyTitle        = InvalidError("title is required")
	ErrIncorrectPrice    = InvalidError("incorrect price")
	ErrInsufficientFunds = InvalidError("insufficient funds")
	ErrInvalidRecipient  = InvalidError("invalid transfer recipient")
	ErrNotForSale        = InvalidError("beat is not for sale")
	ErrNotOwner          = UnauthorizedError("you are not the owner of this beat")
)
