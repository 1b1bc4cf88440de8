package node

import (
	"github.com/go-co-op/gocron"
	"github.com/kurumiimari/vendue/auction"
	"github.com/kurumiimari/vendue/log"
	"gopkg.in/tomb.v2"
	"time"
)

var keeperLogger = log.ModuleLogger("keeper")

// Keeper periodically finalizes auctions whose deadline has passed.
type Keeper struct {
	tmb       *tomb.Tomb
	node      *Node
	interval  time.Duration
	scheduler *gocron.Scheduler
}

func NewKeeper(tmb *tomb.Tomb, node *Node, interval time.Duration) *Keeper {
	return &Keeper{
		tmb:       tmb,
		node:      node,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

func (k *Keeper) Start() error {
	_, err := k.scheduler.Every(k.interval).SingletonMode().Do(k.sweep)
	if err != nil {
		return err
	}
	k.scheduler.StartAsync()

	k.tmb.Go(func() error {
		<-k.tmb.Dying()
		k.scheduler.Stop()
		keeperLogger.Info("keeper stopped")
		return nil
	})
	keeperLogger.Info("keeper started", "interval", k.interval)
	return nil
}

func (k *Keeper) sweep() {
	if _, err := k.Sweep(); err != nil {
		keeperLogger.Error("error sweeping auctions", "err", err)
	}
}

// Sweep finalizes every active auction that has ended and returns how
// many it settled. Failures on one auction do not stop the sweep.
func (k *Keeper) Sweep() (int, error) {
	active, err := k.node.ListAuctions(true)
	if err != nil {
		return 0, err
	}
	activeAuctions.Set(float64(len(active)))

	now := k.node.clock().Unix()
	var settled int
	for _, rec := range active {
		if now < rec.EndTime {
			continue
		}
		_, err := k.node.FinalizeAuction(nil, &auction.FinalizeArgs{
			Auction: rec.Address,
			Winner:  rec.HighestBidder,
			Seller:  rec.Seller,
		})
		if err != nil {
			keeperLogger.Warning("error finalizing auction", "auction", rec.Address, "err", err)
			continue
		}
		settled++
	}
	if settled > 0 {
		keeperLogger.Info("finalized ended auctions", "count", settled)
	}
	return settled, nil
}
