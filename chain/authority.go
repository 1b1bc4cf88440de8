package chain

import (
	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"
)

var ErrInvalidSignature = errors.New("invalid signature")

// Authority is a capability that can authorize spending from records
// whose owner matches it.
type Authority interface {
	Address() *Address
	Authorizes(owner *Address) bool
}

// KeyAuthority is a signer whose signature has been verified.
type KeyAuthority struct {
	pub  *btcec.PublicKey
	addr *Address
}

func VerifyKeyAuthority(pubB []byte, digest []byte, sigB []byte) (*KeyAuthority, error) {
	pub, err := btcec.ParsePubKey(pubB, btcec.S256())
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSignature, "mal-formed public key")
	}
	sig, err := DeserializeSignature(sigB)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	if !sig.Verify(digest, pub) {
		return nil, errors.WithStack(ErrInvalidSignature)
	}
	return &KeyAuthority{
		pub:  pub,
		addr: NewAddressFromPubkey(pub),
	}, nil
}

// NewKeyAuthority signs digest with priv and verifies the result.
func NewKeyAuthority(priv *btcec.PrivateKey, digest []byte) (*KeyAuthority, error) {
	sig, err := Sign(priv, digest)
	if err != nil {
		return nil, err
	}
	return VerifyKeyAuthority(priv.PubKey().SerializeCompressed(), digest, sig)
}

func (k *KeyAuthority) Address() *Address {
	return k.addr
}

func (k *KeyAuthority) PublicKey() *btcec.PublicKey {
	return k.pub
}

func (k *KeyAuthority) Authorizes(owner *Address) bool {
	return k.addr.Equal(owner)
}

// DerivedAuthority proves that a program controls a derived address.
// It can only be constructed from the seeds that produce the address.
type DerivedAuthority struct {
	program *Address
	seeds   [][]byte
	bump    uint8
	addr    *Address
}

func NewDerivedAuthority(program *Address, bump uint8, seeds ...[]byte) (*DerivedAuthority, error) {
	addr, err := CreateDerivedAddress(program, bump, seeds...)
	if err != nil {
		return nil, err
	}
	return &DerivedAuthority{
		program: program,
		seeds:   seeds,
		bump:    bump,
		addr:    addr,
	}, nil
}

func (d *DerivedAuthority) Address() *Address {
	return d.addr
}

func (d *DerivedAuthority) Program() *Address {
	return d.program
}

func (d *DerivedAuthority) Bump() uint8 {
	return d.bump
}

func (d *DerivedAuthority) Authorizes(owner *Address) bool {
	return d.addr.Equal(owner)
}
