package chain

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
	"sync"
	"time"
)

const (
	CoinPurpose = 44
)

type Network struct {
	Net            wire.BitcoinNet
	Name           string
	Port           int
	AddressHRP     string
	AccountDeposit uint64
	HoldingDeposit uint64
	Faucet         bool
	KeeperInterval time.Duration
	KeyPrefix      *NetworkKeyPrefix

	chainParams *chaincfg.Params
}

type NetworkKeyPrefix struct {
	Private  uint8
	XPub     [4]byte
	XPriv    [4]byte
	CoinType uint32
}

var NetworkMain = &Network{
	Net:            0x76656e64,
	Name:           "main",
	Port:           17039,
	AddressHRP:     "vd",
	AccountDeposit: 2_039_280,
	HoldingDeposit: 1_461_600,
	Faucet:         false,
	KeeperInterval: 30 * time.Second,
	KeyPrefix: &NetworkKeyPrefix{
		Private:  0x80,
		XPub:     [4]byte{0x04, 0x88, 0xb2, 0x1f},
		XPriv:    [4]byte{0x04, 0x88, 0xad, 0xe5},
		CoinType: 7039,
	},
}

var NetworkRegtest = &Network{
	Net:            0x76647274,
	Name:           "regtest",
	Port:           17139,
	AddressHRP:     "vr",
	AccountDeposit: 1000,
	HoldingDeposit: 500,
	Faucet:         true,
	KeeperInterval: 2 * time.Second,
	KeyPrefix: &NetworkKeyPrefix{
		Private:  0x5b,
		XPub:     [4]byte{0xea, 0xb4, 0xfa, 0x06},
		XPriv:    [4]byte{0xea, 0xb4, 0x04, 0xc8},
		CoinType: 7139,
	},
}

var (
	currNetwork = NetworkMain
	currMtx     sync.RWMutex
)

func SetCurrNetwork(network *Network) {
	currMtx.Lock()
	defer currMtx.Unlock()
	currNetwork = network
}

func CurrNetwork() *Network {
	currMtx.RLock()
	defer currMtx.RUnlock()
	return currNetwork
}

func NetworkFromName(name string) (*Network, error) {
	switch name {
	case NetworkMain.Name:
		return NetworkMain, nil
	case NetworkRegtest.Name:
		return NetworkRegtest, nil
	default:
		return nil, errors.New("invalid network")
	}
}

func (n *Network) ChainParams() *chaincfg.Params {
	if n.chainParams != nil {
		return n.chainParams
	}

	params := &chaincfg.Params{
		Net:            n.Net,
		Name:           n.Name + "-vendue",
		PrivateKeyID:   n.KeyPrefix.Private,
		HDPrivateKeyID: n.KeyPrefix.XPriv,
		HDPublicKeyID:  n.KeyPrefix.XPub,
		HDCoinType:     n.KeyPrefix.CoinType,
	}
	n.chainParams = params

	return n.chainParams
}

func init() {
	if err := chaincfg.Register(NetworkMain.ChainParams()); err != nil {
		panic(err)
	}
	if err := chaincfg.Register(NetworkRegtest.ChainParams()); err != nil {
		panic(err)
	}
}
