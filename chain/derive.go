package chain

import (
	"github.com/btcsuite/btcd/btcec"
	"github.com/kurumiimari/vendue/bio"
	"github.com/kurumiimari/vendue/gcrypto"
	"github.com/pkg/errors"
)

const (
	MaxSeeds   = 16
	MaxSeedLen = 32

	derivedAddressMarker = "vendue:derived-address"
)

var (
	ErrOnCurve       = errors.New("derived address lies on the secp256k1 curve")
	ErrNoViableBump  = errors.New("no viable bump seed for derived address")
	ErrSeedsTooLarge = errors.New("derivation seeds exceed limits")

	// HoldingProgramID owns the derivation of associated holding
	// addresses.
	HoldingProgramID = NewProgramID("vendue/holding")
	// MintProgramID owns the derivation of asset ids.
	MintProgramID = NewProgramID("vendue/mint")
)

func NewProgramID(name string) *Address {
	return NewAddressFromHash(gcrypto.Blake160([]byte(name)))
}

// CreateDerivedAddress computes the address for program, seeds and bump.
// Addresses whose hash is a valid x coordinate on secp256k1 are rejected,
// so no private key can exist for a derived address.
func CreateDerivedAddress(program *Address, bump uint8, seeds ...[]byte) (*Address, error) {
	if len(seeds) > MaxSeeds {
		return nil, errors.WithStack(ErrSeedsTooLarge)
	}

	h := gcrypto.NewBlake256()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return nil, errors.WithStack(ErrSeedsTooLarge)
		}
		bio.WriteVarBytes(h, seed)
	}
	bio.WriteByte(h, bump)
	program.WriteTo(h)
	bio.WriteRawBytes(h, []byte(derivedAddressMarker))
	hash := h.Sum(nil)

	if isOnCurve(hash) {
		return nil, errors.WithStack(ErrOnCurve)
	}
	return NewAddress(DerivedVersion, hash), nil
}

// FindDerivedAddress searches bumps from 255 downwards and returns the
// first off-curve address.
func FindDerivedAddress(program *Address, seeds ...[]byte) (*Address, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		addr, err := CreateDerivedAddress(program, uint8(bump), seeds...)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return nil, 0, err
		}
	}
	return nil, 0, errors.WithStack(ErrNoViableBump)
}

// AssociatedHoldingAddress is the canonical holding record for owner's
// balance of asset.
func AssociatedHoldingAddress(owner *Address, asset *Address) *Address {
	addr, _, err := FindDerivedAddress(HoldingProgramID, []byte("holding"), owner.Hash, asset.Hash)
	// a search that exhausts all 256 bumps is practically impossible,
	// treat it like any other derivation failure and crash.
	if err != nil {
		panic(err)
	}
	return addr
}

func AssetID(issuer *Address, label string) (*Address, error) {
	labelHash := gcrypto.Blake256([]byte(label))
	addr, _, err := FindDerivedAddress(MintProgramID, []byte("asset"), issuer.Hash, labelHash)
	return addr, err
}

func isOnCurve(hash []byte) bool {
	_, err := btcec.ParsePubKey(append([]byte{0x02}, hash...), btcec.S256())
	return err == nil
}
