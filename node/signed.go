package node

import (
	"github.com/kurumiimari/vendue/chain"
	"github.com/pkg/errors"
)

const (
	OpMintAsset       = "asset.mint"
	OpTransfer        = "account.transfer"
	OpCreateAuction   = "auction.create"
	OpPlaceBid        = "auction.bid"
	OpFinalizeAuction = "auction.finalize"
	OpMakeEscrow      = "escrow.make"
	OpTakeEscrow      = "escrow.take"
	OpRefundEscrow    = "escrow.refund"
	OpListShelfItem   = "shelf.list"
	OpBuyShelfItem    = "shelf.buy"
	OpDelistShelfItem = "shelf.delist"
)

var ErrOpMismatch = errors.New("instruction signed for a different operation")

// Signed is an instruction whose signature has been verified. Its digest
// is consumed by the unit that applies it, so it takes effect at most
// once.
type Signed struct {
	Instruction *chain.Instruction
	Authority   *chain.KeyAuthority
}

func VerifyInstruction(ins *chain.Instruction, sig []byte) (*Signed, error) {
	auth, err := ins.Verify(sig)
	if err != nil {
		return nil, err
	}
	return &Signed{
		Instruction: ins,
		Authority:   auth,
	}, nil
}

func (s *Signed) Address() *chain.Address {
	return s.Authority.Address()
}
