package testutil

import (
	"crypto/rand"
	"github.com/btcsuite/btcd/btcec"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/ledgerdb"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
	"time"
)

// NewEngine returns a migrated engine in a temporary directory that is
// closed when the test finishes.
func NewEngine(t *testing.T) *ledgerdb.Engine {
	engine, err := ledgerdb.NewEngine(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, ledgerdb.MigrateDB(engine))
	t.Cleanup(func() {
		engine.Close()
	})
	return engine
}

type FakeClock struct {
	now time.Time
	mtx sync.Mutex
}

func NewFakeClock() *FakeClock {
	return &FakeClock{
		now: time.Unix(1_650_000_000, 0),
	}
}

func (c *FakeClock) Now() time.Time {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.now = c.now.Add(d)
}

// Signer is a throwaway key used to produce verified key authorities.
type Signer struct {
	Priv *btcec.PrivateKey
}

func NewSigner(t *testing.T) *Signer {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	require.NoError(t, err)
	return &Signer{Priv: priv}
}

func (s *Signer) Address() *chain.Address {
	return chain.NewAddressFromPubkey(s.Priv.PubKey())
}

func (s *Signer) Authority(t *testing.T) *chain.KeyAuthority {
	digest := make([]byte, 32)
	_, err := rand.Read(digest)
	require.NoError(t, err)
	auth, err := chain.NewKeyAuthority(s.Priv, digest)
	require.NoError(t, err)
	return auth
}

func (s *Signer) Instruction(t *testing.T, op string, args []byte, nonce string) (*chain.Instruction, []byte) {
	ins := &chain.Instruction{
		Op:     op,
		Args:   args,
		Signer: s.Priv.PubKey().SerializeCompressed(),
		Nonce:  nonce,
	}
	sig, err := ins.Sign(s.Priv)
	require.NoError(t, err)
	return ins, sig
}
