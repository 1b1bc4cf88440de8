package chain

import (
	"github.com/btcsuite/btcd/btcec"
	"github.com/kurumiimari/vendue/bio"
	"github.com/kurumiimari/vendue/gcrypto"
)

const instructionMagic = "vendue:instruction:1"

// Instruction is the signed envelope of a mutating request. The digest
// commits to the network so a signature cannot be replayed across
// networks.
type Instruction struct {
	Op     string
	Args   []byte
	Signer []byte
	Nonce  string
}

func (i *Instruction) Digest() gcrypto.Hash {
	h := gcrypto.NewBlake256()
	bio.WriteVarBytes(h, []byte(instructionMagic))
	bio.WriteVarBytes(h, []byte(CurrNetwork().Name))
	bio.WriteVarBytes(h, []byte(i.Op))
	bio.WriteVarBytes(h, i.Args)
	bio.WriteVarBytes(h, i.Signer)
	bio.WriteVarBytes(h, []byte(i.Nonce))
	return h.Sum(nil)
}

func (i *Instruction) Sign(priv *btcec.PrivateKey) ([]byte, error) {
	return Sign(priv, i.Digest())
}

func (i *Instruction) Verify(sig []byte) (*KeyAuthority, error) {
	return VerifyKeyAuthority(i.Signer, i.Digest(), sig)
}
