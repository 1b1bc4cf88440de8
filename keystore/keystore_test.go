package keystore

import (
	"fmt"
	"github.com/kurumiimari/vendue/chain"
	"github.com/stretchr/testify/require"
	"testing"
)

const testMnemonic = "hungry provide chat wet repair shrug reduce daring evoke receive offer barrel"

var fastParams = Argon2Params{
	Time:    1,
	Memory:  1024,
	Threads: 1,
}

func newKeystore(t *testing.T) *Keystore {
	dir, err := NewDataDir(t.TempDir())
	require.NoError(t, err)
	ks, err := New(dir, chain.NetworkRegtest)
	require.NoError(t, err)
	return ks.WithParams(fastParams)
}

func TestSecretBox(t *testing.T) {
	t.Parallel()

	box, err := NewArgon2AESGCM256SecretBox([]byte("hello"), "password", fastParams)
	require.NoError(t, err)

	pt, err := box.Decrypt("password")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), pt)

	_, err = box.Decrypt("wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)

	_, err = UnmarshalSecretBox([]byte(`{"type":"rot13"}`))
	require.Error(t, err)
}

func TestKeystore_CreateUnlock(t *testing.T) {
	t.Parallel()

	ks := newKeystore(t)
	kf, err := ks.Create("alice", testMnemonic, "password", 0)
	require.NoError(t, err)

	_, err = ks.Create("alice", testMnemonic, "password", 0)
	require.ErrorIs(t, err, ErrKeyExists)

	loaded, err := ks.Load("alice")
	require.NoError(t, err)
	require.Equal(t, kf.Address, loaded.Address)
	require.Equal(t, chain.SigningDerivation(chain.NetworkRegtest, 0), loaded.Derivation)

	priv, err := ks.Unlock(loaded, "password")
	require.NoError(t, err)
	expected := chain.NewMasterExtendedKeyFromMnemonic(testMnemonic, "", chain.NetworkRegtest).
		Derive(loaded.Derivation).
		Address()
	require.True(t, chain.NewAddressFromPubkey(priv.PubKey()).Equal(expected))

	_, err = ks.Unlock(loaded, "wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)

	names, err := ks.List()
	require.NoError(t, err)
	require.Equal(t, []string{"alice"}, names)
}

func TestKeystore_Errors(t *testing.T) {
	t.Parallel()

	ks := newKeystore(t)
	tests := []struct {
		name     string
		key      string
		mnemonic string
		err      error
	}{
		{"bad name", "Alice!", testMnemonic, ErrInvalidKeyName},
		{"empty name", "", testMnemonic, ErrInvalidKeyName},
		{"bad mnemonic", "bob", "not a mnemonic", ErrInvalidMnemonic},
		{"bad checksum", "carol", "volume doll flush federal inflict tomato result property total curtain shield aisle", ErrInvalidMnemonic},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d-%s", i, tt.name), func(t *testing.T) {
			_, err := ks.Create(tt.key, tt.mnemonic, "password", 0)
			require.ErrorIs(t, err, tt.err)
		})
	}

	_, err := ks.Load("missing")
	require.ErrorIs(t, err, ErrKeyNotFound)
}
