package node

import (
	"github.com/kurumiimari/vendue/auction"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/escrow"
	"github.com/kurumiimari/vendue/ledger"
	"github.com/kurumiimari/vendue/ledgerdb"
	"github.com/kurumiimari/vendue/log"
	"github.com/pkg/errors"
	"gopkg.in/tomb.v2"
	"runtime"
	"time"
)

const Version = "0.1.0"

var logger = log.ModuleLogger("node")

type Node struct {
	tmb     *tomb.Tomb
	network *chain.Network
	engine  *ledgerdb.Engine
	host    *ledger.Host
	keeper  *Keeper
	clock   func() time.Time
	started time.Time
}

type NodeStatus struct {
	Status         string `json:"status"`
	Network        string `json:"network"`
	ActiveAuctions int    `json:"active_auctions"`
	UptimeSecs     int64  `json:"uptime_secs"`
	MemUsage       uint64 `json:"mem_usage"`
	Version        string `json:"version"`
}

type AccountInfo struct {
	Address  *chain.Address `json:"address"`
	Balance  uint64         `json:"balance"`
	Deposit  uint64         `json:"deposit"`
	Owner    *chain.Address `json:"owner"`
	Holdings []*HoldingInfo `json:"holdings"`
}

type HoldingInfo struct {
	Address *chain.Address `json:"address"`
	AssetID *chain.Address `json:"asset_id"`
	Label   string         `json:"label"`
	Amount  uint64         `json:"amount"`
	Deposit uint64         `json:"deposit"`
}

func NewNode(tmb *tomb.Tomb, network *chain.Network, engine *ledgerdb.Engine, clock func() time.Time) *Node {
	if clock == nil {
		clock = time.Now
	}
	n := &Node{
		tmb:     tmb,
		network: network,
		engine:  engine,
		host:    ledger.NewHost(engine, network, clock),
		clock:   clock,
	}
	n.keeper = NewKeeper(tmb, n, network.KeeperInterval)
	return n
}

func (n *Node) Start() error {
	n.started = n.clock()
	if err := n.keeper.Start(); err != nil {
		return errors.Wrap(err, "error starting keeper")
	}
	logger.Info("node started", "network", n.network.Name)
	return nil
}

func (n *Node) Keeper() *Keeper {
	return n.keeper
}

func (n *Node) Network() *chain.Network {
	return n.network
}

func (n *Node) Status() (*NodeStatus, error) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	active, err := n.ListAuctions(true)
	if err != nil {
		return nil, err
	}

	var uptime int64
	if !n.started.IsZero() {
		uptime = int64(n.clock().Sub(n.started) / time.Second)
	}
	return &NodeStatus{
		Status:         "OK",
		Network:        n.network.Name,
		ActiveAuctions: len(active),
		UptimeSecs:     uptime,
		MemUsage:       memStats.HeapAlloc,
		Version:        Version,
	}, nil
}

// execute applies one operation as a single unit on behalf of program.
// The signed instruction, if any, is consumed inside the same unit.
func (n *Node) execute(op string, program *chain.Address, signed *Signed, cb func(l *ledger.Ledger) error) error {
	err := n.host.Execute(program, func(l *ledger.Ledger) error {
		if signed != nil {
			if signed.Instruction.Op != op {
				return errors.Wrapf(ErrOpMismatch, "expected %s, got %s", op, signed.Instruction.Op)
			}
			if err := l.ConsumeInstruction(signed.Instruction.Digest(), signed.Address(), op); err != nil {
				return err
			}
		}
		return cb(l)
	})
	metricOperation(op, err)
	if err != nil {
		logger.Debug("operation failed", "op", op, "err", err)
	}
	return err
}

func (n *Node) Airdrop(to *chain.Address, amount uint64) error {
	return n.execute("account.airdrop", nil, nil, func(l *ledger.Ledger) error {
		return l.Airdrop(to, amount)
	})
}

func (n *Node) Transfer(signed *Signed, to *chain.Address, amount uint64) error {
	return n.execute(OpTransfer, nil, signed, func(l *ledger.Ledger) error {
		return l.TransferValue(signed.Address(), to, signed.Authority, amount)
	})
}

func (n *Node) MintAsset(signed *Signed, label string, supply uint64) (*chain.Address, error) {
	var id *chain.Address
	err := n.execute(OpMintAsset, nil, signed, func(l *ledger.Ledger) error {
		var err error
		id, err = l.MintAsset(signed.Authority, label, supply)
		return err
	})
	return id, err
}

func (n *Node) Account(addr *chain.Address) (*AccountInfo, error) {
	info := &AccountInfo{
		Address:  addr,
		Holdings: make([]*HoldingInfo, 0),
	}
	err := n.host.View(func(l *ledger.Ledger) error {
		acc, err := l.Account(addr)
		if err == nil {
			info.Balance = acc.Balance
			info.Deposit = acc.Deposit
			info.Owner = acc.Owner
		} else if !errors.Is(err, ledger.ErrAccountNotFound) {
			return err
		}

		holdings, err := l.Holdings(addr)
		if err != nil {
			return err
		}
		for _, h := range holdings {
			asset, err := l.Asset(h.AssetID)
			if err != nil {
				return err
			}
			info.Holdings = append(info.Holdings, &HoldingInfo{
				Address: h.Address,
				AssetID: h.AssetID,
				Label:   asset.Label,
				Amount:  h.Amount,
				Deposit: h.Deposit,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (n *Node) CreateAuction(signed *Signed, args *auction.CreateArgs) (*auction.Record, error) {
	var rec *auction.Record
	err := n.execute(OpCreateAuction, auction.ProgramID, signed, func(l *ledger.Ledger) error {
		var err error
		rec, err = auction.Create(l, signed.Authority, args)
		return err
	})
	return rec, err
}

// PlaceBid opens the bidder's holding for the auctioned asset, so that a
// win can always be settled, and places the bid in the same unit.
func (n *Node) PlaceBid(signed *Signed, addr *chain.Address, amount uint64, prev auction.PreviousBidder) (*auction.Record, error) {
	var rec *auction.Record
	err := n.execute(OpPlaceBid, auction.ProgramID, signed, func(l *ledger.Ledger) error {
		current, err := auction.Load(l, addr)
		if err != nil {
			return err
		}
		if _, err := l.OpenHolding(signed.Authority, signed.Address(), current.AssetID); err != nil {
			return err
		}
		rec, err = auction.PlaceBid(l, addr, signed.Authority, amount, prev)
		return err
	})
	if err == nil {
		bidVolume.Add(float64(amount))
	}
	return rec, err
}

// FinalizeAuction settles an ended auction. signed may be nil since
// finalization is permissionless.
func (n *Node) FinalizeAuction(signed *Signed, args *auction.FinalizeArgs) (*auction.Settlement, error) {
	var settlement *auction.Settlement
	err := n.execute(OpFinalizeAuction, auction.ProgramID, signed, func(l *ledger.Ledger) error {
		var err error
		settlement, err = auction.Finalize(l, args)
		return err
	})
	if err == nil {
		metricFinalized(settlement.Proceeds, settlement.Winner != nil)
	}
	return settlement, err
}

func (n *Node) GetAuction(addr *chain.Address) (*auction.Record, error) {
	var rec *auction.Record
	err := n.host.View(func(l *ledger.Ledger) error {
		var err error
		rec, err = auction.Load(l, addr)
		return err
	})
	return rec, err
}

func (n *Node) ListAuctions(activeOnly bool) ([]*auction.Record, error) {
	var recs []*auction.Record
	err := n.host.View(func(l *ledger.Ledger) error {
		var err error
		recs, err = auction.List(l, activeOnly)
		return err
	})
	return recs, err
}

func (n *Node) MakeEscrow(signed *Signed, args *escrow.MakeArgs) (*escrow.Escrow, error) {
	var esc *escrow.Escrow
	err := n.execute(OpMakeEscrow, escrow.ProgramID, signed, func(l *ledger.Ledger) error {
		var err error
		esc, err = escrow.Make(l, signed.Authority, args)
		return err
	})
	return esc, err
}

func (n *Node) TakeEscrow(signed *Signed, addr *chain.Address) (*escrow.Escrow, error) {
	var esc *escrow.Escrow
	err := n.execute(OpTakeEscrow, escrow.ProgramID, signed, func(l *ledger.Ledger) error {
		var err error
		esc, err = escrow.Take(l, addr, signed.Authority)
		return err
	})
	return esc, err
}

func (n *Node) RefundEscrow(signed *Signed, addr *chain.Address) (*escrow.Escrow, error) {
	var esc *escrow.Escrow
	err := n.execute(OpRefundEscrow, escrow.ProgramID, signed, func(l *ledger.Ledger) error {
		var err error
		esc, err = escrow.Refund(l, addr, signed.Authority)
		return err
	})
	return esc, err
}

func (n *Node) GetEscrow(addr *chain.Address) (*escrow.Escrow, error) {
	var esc *escrow.Escrow
	err := n.host.View(func(l *ledger.Ledger) error {
		var err error
		esc, err = escrow.LoadEscrow(l, addr)
		return err
	})
	return esc, err
}

func (n *Node) ListEscrows() ([]*escrow.Escrow, error) {
	var out []*escrow.Escrow
	err := n.host.View(func(l *ledger.Ledger) error {
		var err error
		out, err = escrow.ListEscrows(l)
		return err
	})
	return out, err
}

func (n *Node) ListShelfItem(signed *Signed, args *escrow.ListArgs) (*escrow.ShelfItem, error) {
	var item *escrow.ShelfItem
	err := n.execute(OpListShelfItem, escrow.ProgramID, signed, func(l *ledger.Ledger) error {
		var err error
		item, err = escrow.List(l, signed.Authority, args)
		return err
	})
	return item, err
}

func (n *Node) BuyShelfItem(signed *Signed, addr *chain.Address) (*escrow.ShelfItem, error) {
	var item *escrow.ShelfItem
	err := n.execute(OpBuyShelfItem, escrow.ProgramID, signed, func(l *ledger.Ledger) error {
		var err error
		item, err = escrow.Buy(l, addr, signed.Authority)
		return err
	})
	return item, err
}

func (n *Node) DelistShelfItem(signed *Signed, addr *chain.Address) (*escrow.ShelfItem, error) {
	var item *escrow.ShelfItem
	err := n.execute(OpDelistShelfItem, escrow.ProgramID, signed, func(l *ledger.Ledger) error {
		var err error
		item, err = escrow.Delist(l, addr, signed.Authority)
		return err
	})
	return item, err
}

func (n *Node) GetShelfItem(addr *chain.Address) (*escrow.ShelfItem, error) {
	var item *escrow.ShelfItem
	err := n.host.View(func(l *ledger.Ledger) error {
		var err error
		item, err = escrow.LoadShelfItem(l, addr)
		return err
	})
	return item, err
}

func (n *Node) ListShelfItems() ([]*escrow.ShelfItem, error) {
	var out []*escrow.ShelfItem
	err := n.host.View(func(l *ledger.Ledger) error {
		var err error
		out, err = escrow.ListShelfItems(l)
		return err
	})
	return out, err
}
