package ledger

import "github.com/pkg/errors"

var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountExists       = errors.New("account already exists")
	ErrHoldingNotFound     = errors.New("holding not found")
	ErrHoldingNotEmpty     = errors.New("holding not empty")
	ErrAssetMismatch       = errors.New("asset mismatch")
	ErrAssetNotFound       = errors.New("asset not found")
	ErrAssetExists         = errors.New("asset already exists")
	ErrReplayedInstruction = errors.New("instruction already applied")
	ErrFaucetDisabled      = errors.New("faucet disabled on this network")
	ErrAmountOverflow      = errors.New("amount overflow")
	ErrReadOnly            = errors.New("read-only ledger view")
)
