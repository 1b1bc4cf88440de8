package escrow

import "github.com/pkg/errors"

var (
	ErrNotAssetOwner   = errors.New("maker does not hold enough of the offered asset")
	ErrNotMaker        = errors.New("only the maker may do this")
	ErrNotSeller       = errors.New("only the seller may do this")
	ErrListingClosed   = errors.New("listing is closed")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrMalformedRecord = errors.New("mal-formed escrow record")
)
