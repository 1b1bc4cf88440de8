package itest

import (
	"fmt"
	"github.com/btcsuite/btcd/btcec"
	"github.com/kurumiimari/vendue/api"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/keystore"
	"github.com/kurumiimari/vendue/log"
	"github.com/stretchr/testify/require"
	"gopkg.in/tomb.v2"
	"testing"
	"time"
)

const Mnemonic = "run term hint cram stage surround cup frame flight miracle extend reward twelve cause dragon forum barely uncover iron slot napkin walk cancel acid"

var daemonLogger = log.ModuleLogger("daemon")

func startDaemon(t *testing.T) (*api.Client, func()) {
	prefix := t.TempDir()
	tmb := new(tomb.Tomb)

	tmb.Go(func() error {
		return api.Start(tmb, chain.NetworkRegtest, prefix, "")
	})

	cleanup := func() {
		tmb.Kill(nil)
		<-tmb.Dead()
	}

	nodeClient := api.NewClient(fmt.Sprintf("http://localhost:%d", chain.NetworkRegtest.Port), "")
	for i := 0; i < 10; i++ {
		_, err := nodeClient.Status()
		if err == nil {
			daemonLogger.Info("started daemon", "prefix", prefix)
			return nodeClient, cleanup
		}

		time.Sleep(200 * time.Millisecond)
	}
	cleanup()
	require.NoError(t, tmb.Err())
	require.FailNow(t, "daemon did not start")
	return nil, nil
}

// importKeys derives one signing key per account index from Mnemonic
// through a temporary keystore.
func importKeys(t *testing.T, n int) []*btcec.PrivateKey {
	dir, err := keystore.NewDataDir(t.TempDir())
	require.NoError(t, err)
	ks, err := keystore.New(dir, chain.NetworkRegtest)
	require.NoError(t, err)
	ks.WithParams(keystore.Argon2Params{Time: 1, Memory: 1024, Threads: 1})

	out := make([]*btcec.PrivateKey, n)
	for i := 0; i < n; i++ {
		kf, err := ks.Create(fmt.Sprintf("key-%d", i), Mnemonic, "password", uint32(i))
		require.NoError(t, err)
		out[i], err = ks.Unlock(kf, "password")
		require.NoError(t, err)
	}
	return out
}

func addr(priv *btcec.PrivateKey) *chain.Address {
	return chain.NewAddressFromPubkey(priv.PubKey())
}
