package chain

import (
	"encoding/json"
	"fmt"
	"github.com/btcsuite/btcd/btcec"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestAddress_Bech32RoundTrip(t *testing.T) {
	SetCurrNetwork(NetworkRegtest)
	defer SetCurrNetwork(NetworkMain)

	priv, err := btcec.NewPrivateKey(btcec.S256())
	require.NoError(t, err)
	keyAddr := NewAddressFromPubkey(priv.PubKey())
	derived, _, err := FindDerivedAddress(NewProgramID("test"), []byte("seed"))
	require.NoError(t, err)

	for i, addr := range []*Address{keyAddr, derived} {
		t.Run(fmt.Sprintf("%d-version-%d", i, addr.Version), func(t *testing.T) {
			bech := addr.String()
			require.Equal(t, "vr1", bech[:3])
			parsed, err := NewAddressFromBech32(bech)
			require.NoError(t, err)
			require.True(t, addr.Equal(parsed))
		})
	}
}

func TestAddress_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		addr *Address
	}{
		{"short key hash", NewAddress(KeyHashVersion, make([]byte, 19))},
		{"short derived hash", NewAddress(DerivedVersion, make([]byte, 20))},
		{"unknown version", NewAddress(7, make([]byte, 20))},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d-%s", i, tt.name), func(t *testing.T) {
			_, err := NewAddressFromBech32(tt.addr.String())
			require.ErrorIs(t, err, ErrInvalidAddress)
			_, err = ParseAddressKey(tt.addr.Key())
			require.ErrorIs(t, err, ErrInvalidAddress)
		})
	}
}

func TestAddress_SQLAndJSON(t *testing.T) {
	addr := NewAddressFromHash(make([]byte, 20))
	addr.Hash[0] = 0xab

	val, err := addr.Value()
	require.NoError(t, err)
	scanned := new(Address)
	require.NoError(t, scanned.Scan(val))
	require.True(t, addr.Equal(scanned))

	j, err := json.Marshal(addr)
	require.NoError(t, err)
	decoded := new(Address)
	require.NoError(t, json.Unmarshal(j, decoded))
	require.True(t, addr.Equal(decoded))

	var nilAddr *Address
	val, err = nilAddr.Value()
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestAddress_Equal(t *testing.T) {
	a := NewAddressFromHash(make([]byte, 20))
	b := NewAddressFromHash(make([]byte, 20))
	var none *Address
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(none))
	require.True(t, none.Equal(nil))
	require.False(t, a.Equal(NewAddress(DerivedVersion, make([]byte, 20))))
}
