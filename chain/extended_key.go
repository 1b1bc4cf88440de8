package chain

import (
	"github.com/btcsuite/btcd/btcec"
	"github.com/btcsuite/btcutil/hdkeychain"
	"github.com/tyler-smith/go-bip39"
)

// SigningDerivation returns the path of the key that signs instructions
// for account idx.
func SigningDerivation(network *Network, idx uint32) Derivation {
	return Derivation{
		HardenNode(CoinPurpose),
		HardenNode(network.KeyPrefix.CoinType),
		HardenNode(idx),
		0,
		0,
	}
}

type ExtendedKey struct {
	ek      *hdkeychain.ExtendedKey
	network *Network
}

func NewMasterExtendedKeyFromMnemonic(mnemonic string, password string, network *Network) *ExtendedKey {
	seed := bip39.NewSeed(mnemonic, password)
	ek, err := hdkeychain.NewMaster(seed, network.ChainParams())

	// key derivation failures are unrecoverable
	if err != nil {
		panic(err)
	}

	return &ExtendedKey{
		ek:      ek,
		network: network,
	}
}

func (e *ExtendedKey) Child(i uint32) *ExtendedKey {
	ek, err := e.ek.Child(i)
	if err != nil {
		panic(err)
	}

	return &ExtendedKey{
		ek:      ek,
		network: e.network,
	}
}

func (e *ExtendedKey) Derive(path Derivation) *ExtendedKey {
	out := e
	for _, child := range path {
		out = out.Child(child)
	}
	return out
}

func (e *ExtendedKey) Address() *Address {
	return NewAddressFromPubkey(e.PublicKey())
}

func (e *ExtendedKey) PublicKey() *btcec.PublicKey {
	pub, err := e.ek.ECPubKey()
	if err != nil {
		panic(err)
	}
	return pub
}

func (e *ExtendedKey) PrivateKey() (*btcec.PrivateKey, error) {
	return e.ek.ECPrivKey()
}

func (e *ExtendedKey) PublicString() string {
	pub, err := e.ek.Neuter()
	if err != nil {
		panic(err)
	}
	return pub.String()
}
