package chain

import (
	"bytes"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"github.com/btcsuite/btcd/btcec"
	"github.com/btcsuite/btcutil/bech32"
	"github.com/kurumiimari/vendue/bio"
	"github.com/kurumiimari/vendue/gcrypto"
	"github.com/pkg/errors"
	"io"
	"reflect"
)

const (
	// KeyHashVersion addresses commit to a secp256k1 public key.
	KeyHashVersion uint8 = 0
	// DerivedVersion addresses are derived from a program id and seeds
	// and have no corresponding private key.
	DerivedVersion uint8 = 1

	keyHashLen = 20
	derivedLen = 32
)

var ErrInvalidAddress = errors.New("invalid address")

type Address struct {
	Version uint8
	Hash    gcrypto.Hash
}

func NewAddress(version uint8, hash []byte) *Address {
	return &Address{
		Version: version,
		Hash:    hash,
	}
}

func NewAddressFromHash(hash []byte) *Address {
	return &Address{
		Version: KeyHashVersion,
		Hash:    hash,
	}
}

func NewAddressFromPubkey(key *btcec.PublicKey) *Address {
	return NewAddressFromHash(gcrypto.Blake160(key.SerializeCompressed()))
}

func NewAddressFromBech32(bech string) (*Address, error) {
	_, data, err := bech32.Decode(bech)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding bech32")
	}
	if len(data) < 2 {
		return nil, errors.WithStack(ErrInvalidAddress)
	}
	version := data[0]
	hash, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return nil, errors.Wrap(err, "error converting bits")
	}
	addr := &Address{
		Version: version,
		Hash:    hash,
	}
	if !addr.IsValid() {
		return nil, errors.WithStack(ErrInvalidAddress)
	}
	return addr, nil
}

// ParseAddressKey is the inverse of Address.Key.
func ParseAddressKey(key string) (*Address, error) {
	b, err := hex.DecodeString(key)
	if err != nil || len(b) < 2 {
		return nil, errors.WithStack(ErrInvalidAddress)
	}
	addr := &Address{
		Version: b[0],
		Hash:    b[1:],
	}
	if !addr.IsValid() {
		return nil, errors.WithStack(ErrInvalidAddress)
	}
	return addr, nil
}

func (a *Address) IsValid() bool {
	switch a.Version {
	case KeyHashVersion:
		return len(a.Hash) == keyHashLen
	case DerivedVersion:
		return len(a.Hash) == derivedLen
	default:
		return false
	}
}

func (a *Address) IsDerived() bool {
	return a.Version == DerivedVersion
}

func (a *Address) Size() int {
	return 1 + bio.SizeVarBytes(a.Hash)
}

func (a *Address) String() string {
	data, err := bech32.ConvertBits(a.Hash, 8, 5, true)
	if err != nil {
		panic(err)
	}
	bech, err := bech32.Encode(CurrNetwork().AddressHRP, append([]byte{a.Version}, data...))
	if err != nil {
		panic(err)
	}
	return bech
}

// Key is the network-independent form used as a storage key.
func (a *Address) Key() string {
	return hex.EncodeToString(append([]byte{a.Version}, a.Hash...))
}

func (a *Address) Equal(b *Address) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Version == b.Version && bytes.Equal(a.Hash, b.Hash)
}

func (a *Address) WriteTo(w io.Writer) (int64, error) {
	g := bio.NewGuardWriter(w)
	bio.WriteByte(g, a.Version)
	bio.WriteVarBytes(g, a.Hash)
	return g.N, errors.Wrap(g.Err, "error writing address")
}

func (a *Address) ReadFrom(r io.Reader) (int64, error) {
	g := bio.NewGuardReader(r)
	version, _ := bio.ReadByte(g)
	hash, _ := bio.ReadVarBytes(g)
	if g.Err != nil {
		return g.N, errors.Wrap(g.Err, "error reading address")
	}
	a.Version = version
	a.Hash = hash
	return g.N, nil
}

func (a *Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(b []byte) error {
	var bech string
	if err := json.Unmarshal(b, &bech); err != nil {
		return errors.WithStack(err)
	}
	addr, err := NewAddressFromBech32(bech)
	if err != nil {
		return err
	}
	*a = *addr
	return nil
}

func (a *Address) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return a.Key(), nil
}

func (a *Address) Scan(src interface{}) error {
	var key string
	switch t := src.(type) {
	case string:
		key = t
	case []byte:
		key = string(t)
	default:
		return errors.Errorf("cannot scan %v into address", reflect.TypeOf(src))
	}
	addr, err := ParseAddressKey(key)
	if err != nil {
		return err
	}
	*a = *addr
	return nil
}
