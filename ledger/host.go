package ledger

import (
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/ledgerdb"
	"github.com/kurumiimari/vendue/log"
	"time"
)

var logger = log.ModuleLogger("ledger")

// Host executes program operations against the ledger. Each call to
// Execute is one indivisible unit: it either commits every write made
// through its Ledger or none of them.
type Host struct {
	engine  *ledgerdb.Engine
	network *chain.Network
	clock   func() time.Time
}

func NewHost(engine *ledgerdb.Engine, network *chain.Network, clock func() time.Time) *Host {
	if clock == nil {
		clock = time.Now
	}
	return &Host{
		engine:  engine,
		network: network,
		clock:   clock,
	}
}

// Execute runs cb on behalf of program. Derived authorities are only
// honored when their program matches the invoking program. A nil program
// runs the unit with key authorities only.
func (h *Host) Execute(program *chain.Address, cb func(l *Ledger) error) error {
	return h.engine.Transaction(func(tx ledgerdb.Transactor) error {
		l := &Ledger{
			tx:      tx,
			network: h.network,
			invoker: program,
			now:     h.clock(),
		}
		if err := cb(l); err != nil {
			logger.Debug("unit rolled back", "program", programName(program), "err", err)
			return err
		}
		return nil
	})
}

// View runs cb against a read-only ledger.
func (h *Host) View(cb func(l *Ledger) error) error {
	return h.engine.Transaction(func(tx ledgerdb.Transactor) error {
		return cb(&Ledger{
			tx:       tx,
			network:  h.network,
			now:      h.clock(),
			readOnly: true,
		})
	})
}

func (h *Host) Network() *chain.Network {
	return h.network
}

func programName(program *chain.Address) string {
	if program == nil {
		return "none"
	}
	return program.String()
}
