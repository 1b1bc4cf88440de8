package auction

import (
	"bytes"
	"github.com/kurumiimari/vendue/bio"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/custody"
	"github.com/pkg/errors"
	"io"
)

const recordTag uint8 = 0xa1

// Record is the persisted state of one auction.
type Record struct {
	// Address is derived from the record's identity and is not persisted.
	Address       *chain.Address `json:"address"`
	AuctionID     uint64         `json:"auction_id"`
	Seller        *chain.Address `json:"seller"`
	AssetID       *chain.Address `json:"asset_id"`
	HighestBidder *chain.Address `json:"highest_bidder"`
	HighestBid    uint64         `json:"highest_bid"`
	StartTime     int64          `json:"start_time"`
	EndTime       int64          `json:"end_time"`
	Cooldown      int64          `json:"cooldown"`
	IsActive      bool           `json:"is_active"`
	Bump          uint8          `json:"bump"`
	VaultBump     uint8          `json:"vault_bump"`
}

func recordSeeds(seller, asset *chain.Address, auctionID uint64) [][]byte {
	return [][]byte{
		[]byte("auction"),
		seller.Hash,
		asset.Hash,
		bio.Uint64LE(auctionID),
	}
}

// RecordAddress derives the address of the auction seller lists asset
// under with auctionID.
func RecordAddress(seller, asset *chain.Address, auctionID uint64) (*chain.Address, uint8, error) {
	return chain.FindDerivedAddress(ProgramID, recordSeeds(seller, asset, auctionID)...)
}

func (r *Record) authority() (*chain.DerivedAuthority, error) {
	auth, err := chain.NewDerivedAuthority(ProgramID, r.Bump, recordSeeds(r.Seller, r.AssetID, r.AuctionID)...)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedRecord, err.Error())
	}
	return auth, nil
}

func (r *Record) vault() (*custody.Vault, error) {
	return custody.Load(ProgramID, r.Address, r.AssetID, r.VaultBump)
}

// HasBidder reports whether any bid has been placed.
func (r *Record) HasBidder() bool {
	return r.HighestBidder != nil
}

func (r *Record) WriteTo(w io.Writer) (int64, error) {
	g := bio.NewGuardWriter(w)
	bio.WriteByte(g, recordTag)
	bio.WriteUint64LE(g, r.AuctionID)
	r.Seller.WriteTo(g)
	r.AssetID.WriteTo(g)
	bio.WriteBool(g, r.HasBidder())
	if r.HasBidder() {
		r.HighestBidder.WriteTo(g)
	}
	bio.WriteUint64LE(g, r.HighestBid)
	bio.WriteInt64LE(g, r.StartTime)
	bio.WriteInt64LE(g, r.EndTime)
	bio.WriteInt64LE(g, r.Cooldown)
	bio.WriteBool(g, r.IsActive)
	bio.WriteVarBytes(g, []byte{r.Bump, r.VaultBump})
	return g.N, errors.Wrap(g.Err, "error writing auction record")
}

func (r *Record) ReadFrom(rd io.Reader) (int64, error) {
	g := bio.NewGuardReader(rd)
	tag, _ := bio.ReadByte(g)
	if g.Err == nil && tag != recordTag {
		return g.N, errors.Wrapf(ErrMalformedRecord, "unknown tag %x", tag)
	}
	r.AuctionID, _ = bio.ReadUint64LE(g)
	r.Seller = new(chain.Address)
	r.Seller.ReadFrom(g)
	r.AssetID = new(chain.Address)
	r.AssetID.ReadFrom(g)
	hasBidder, bidderErr := bio.ReadBool(g)
	r.HighestBidder = nil
	if hasBidder {
		r.HighestBidder = new(chain.Address)
		r.HighestBidder.ReadFrom(g)
	}
	r.HighestBid, _ = bio.ReadUint64LE(g)
	r.StartTime, _ = bio.ReadInt64LE(g)
	r.EndTime, _ = bio.ReadInt64LE(g)
	r.Cooldown, _ = bio.ReadInt64LE(g)
	isActive, activeErr := bio.ReadBool(g)
	r.IsActive = isActive
	derivation, _ := bio.ReadVarBytes(g)
	if g.Err != nil {
		return g.N, errors.Wrap(ErrMalformedRecord, g.Err.Error())
	}
	if bidderErr != nil || activeErr != nil {
		return g.N, errors.Wrap(ErrMalformedRecord, bio.ErrInvalidBool.Error())
	}
	if len(derivation) != 2 {
		return g.N, errors.Wrap(ErrMalformedRecord, "bad authority derivation")
	}
	r.Bump = derivation[0]
	r.VaultBump = derivation[1]
	return g.N, nil
}

func (r *Record) Bytes() []byte {
	buf := new(bytes.Buffer)
	if _, err := r.WriteTo(buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// DecodeRecord parses a record stored at addr and checks that addr is the
// address its identity derives to.
func DecodeRecord(addr *chain.Address, data []byte) (*Record, error) {
	rec := new(Record)
	rd := bytes.NewReader(data)
	if _, err := rec.ReadFrom(rd); err != nil {
		return nil, err
	}
	if rd.Len() != 0 {
		return nil, errors.Wrap(ErrMalformedRecord, "trailing bytes")
	}
	auth, err := rec.authority()
	if err != nil {
		return nil, err
	}
	if !auth.Address().Equal(addr) {
		return nil, errors.Wrap(ErrMalformedRecord, "record does not derive to its address")
	}
	rec.Address = addr
	return rec, nil
}
