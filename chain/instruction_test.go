package chain

import (
	"github.com/btcsuite/btcd/btcec"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestInstruction_SignVerify(t *testing.T) {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	require.NoError(t, err)

	ins := &Instruction{
		Op:     "auction.bid",
		Args:   []byte(`{"amount":5}`),
		Signer: priv.PubKey().SerializeCompressed(),
		Nonce:  "n-1",
	}
	sig, err := ins.Sign(priv)
	require.NoError(t, err)

	auth, err := ins.Verify(sig)
	require.NoError(t, err)
	require.True(t, auth.Address().Equal(NewAddressFromPubkey(priv.PubKey())))

	tampered := *ins
	tampered.Args = []byte(`{"amount":500}`)
	_, err = tampered.Verify(sig)
	require.ErrorIs(t, err, ErrInvalidSignature)

	require.NotEqual(t, ins.Digest(), (&Instruction{Op: "auction.bid", Args: ins.Args, Signer: ins.Signer, Nonce: "n-2"}).Digest())
}
