package escrow

import (
	"github.com/kurumiimari/vendue/bio"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/custody"
	"github.com/kurumiimari/vendue/ledgerdb"
	"github.com/pkg/errors"
	"io"
)

// ShelfItem is a fixed-price listing of one unit of an asset.
type ShelfItem struct {
	Address   *chain.Address `json:"address"`
	Seed      uint64         `json:"seed"`
	Seller    *chain.Address `json:"seller"`
	AssetID   *chain.Address `json:"asset_id"`
	Price     uint64         `json:"price"`
	Bump      uint8          `json:"bump"`
	VaultBump uint8          `json:"vault_bump"`
}

type ListArgs struct {
	Seed    uint64
	AssetID *chain.Address
	Price   uint64
}

func shelfSeeds(seller *chain.Address, seed uint64) [][]byte {
	return [][]byte{
		[]byte("shelf"),
		seller.Hash,
		bio.Uint64LE(seed),
	}
}

func ShelfItemAddress(seller *chain.Address, seed uint64) (*chain.Address, uint8, error) {
	return chain.FindDerivedAddress(ProgramID, shelfSeeds(seller, seed)...)
}

func (s *ShelfItem) authority() (*chain.DerivedAuthority, error) {
	auth, err := chain.NewDerivedAuthority(ProgramID, s.Bump, shelfSeeds(s.Seller, s.Seed)...)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedRecord, err.Error())
	}
	return auth, nil
}

func (s *ShelfItem) setAddress(addr *chain.Address) {
	s.Address = addr
}

func (s *ShelfItem) vault() (*custody.Vault, error) {
	return custody.Load(ProgramID, s.Address, s.AssetID, s.VaultBump)
}

func (s *ShelfItem) WriteTo(w io.Writer) (int64, error) {
	g := bio.NewGuardWriter(w)
	bio.WriteByte(g, shelfTag)
	bio.WriteUint64LE(g, s.Seed)
	s.Seller.WriteTo(g)
	s.AssetID.WriteTo(g)
	bio.WriteUint64LE(g, s.Price)
	bio.WriteVarBytes(g, derivationBytes(s.Bump, s.VaultBump))
	return g.N, errors.Wrap(g.Err, "error writing shelf item")
}

func (s *ShelfItem) ReadFrom(r io.Reader) (int64, error) {
	g := bio.NewGuardReader(r)
	if err := readTag(g, shelfTag); err != nil {
		return g.N, err
	}
	s.Seed, _ = bio.ReadUint64LE(g)
	s.Seller = new(chain.Address)
	s.Seller.ReadFrom(g)
	s.AssetID = new(chain.Address)
	s.AssetID.ReadFrom(g)
	s.Price, _ = bio.ReadUint64LE(g)
	derivation, _ := bio.ReadVarBytes(g)
	if g.Err != nil {
		return g.N, errors.Wrap(ErrMalformedRecord, g.Err.Error())
	}
	var err error
	s.Bump, s.VaultBump, err = parseDerivation(derivation)
	return g.N, err
}

// List puts one unit of an asset on the shelf at a fixed price.
func List(l Ledger, seller chain.Authority, args *ListArgs) (*ShelfItem, error) {
	if args.Price == 0 {
		return nil, errors.WithStack(ErrInvalidAmount)
	}
	bal, err := l.AssetBalance(seller.Address(), args.AssetID)
	if err != nil {
		return nil, err
	}
	if bal < 1 {
		return nil, errors.WithStack(ErrNotAssetOwner)
	}

	addr, bump, err := ShelfItemAddress(seller.Address(), args.Seed)
	if err != nil {
		return nil, err
	}
	vault, err := custody.Find(ProgramID, addr, args.AssetID)
	if err != nil {
		return nil, err
	}
	item := &ShelfItem{
		Address:   addr,
		Seed:      args.Seed,
		Seller:    seller.Address(),
		AssetID:   args.AssetID,
		Price:     args.Price,
		Bump:      bump,
		VaultBump: vault.Bump,
	}
	auth, err := item.authority()
	if err != nil {
		return nil, err
	}

	if err := l.CreateAccount(seller, auth, encode(item)); err != nil {
		return nil, errors.Wrap(err, "error creating shelf item")
	}
	if err := vault.Open(l, seller); err != nil {
		return nil, err
	}
	sellerHolding := chain.AssociatedHoldingAddress(seller.Address(), args.AssetID)
	if err := vault.Deposit(l, sellerHolding, seller, 1); err != nil {
		return nil, err
	}

	logger.Info("listed shelf item", "item", addr, "seller", item.Seller, "price", item.Price)
	return item, nil
}

func LoadShelfItem(l Ledger, addr *chain.Address) (*ShelfItem, error) {
	item := new(ShelfItem)
	if err := load(l, addr, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Buy pays the seller the listed price and hands the asset to buyer.
func Buy(l Ledger, addr *chain.Address, buyer chain.Authority) (*ShelfItem, error) {
	item, err := LoadShelfItem(l, addr)
	if err != nil {
		return nil, err
	}
	auth, err := item.authority()
	if err != nil {
		return nil, err
	}
	vault, err := item.vault()
	if err != nil {
		return nil, err
	}

	if err := l.TransferValue(buyer.Address(), item.Seller, buyer, item.Price); err != nil {
		return nil, errors.Wrap(err, "error paying seller")
	}
	buyerHolding, err := l.OpenHolding(buyer, buyer.Address(), item.AssetID)
	if err != nil {
		return nil, err
	}
	if err := settle(l, addr, auth, vault, buyerHolding, 1, item.Seller); err != nil {
		return nil, err
	}

	logger.Info("bought shelf item", "item", addr, "buyer", buyer.Address(), "price", item.Price)
	return item, nil
}

// Delist takes the item off the shelf and returns it to the seller.
func Delist(l Ledger, addr *chain.Address, seller chain.Authority) (*ShelfItem, error) {
	item, err := LoadShelfItem(l, addr)
	if err != nil {
		return nil, err
	}
	if !seller.Authorizes(item.Seller) {
		return nil, errors.WithStack(ErrNotSeller)
	}
	auth, err := item.authority()
	if err != nil {
		return nil, err
	}
	vault, err := item.vault()
	if err != nil {
		return nil, err
	}
	sellerHolding := chain.AssociatedHoldingAddress(item.Seller, item.AssetID)
	if err := settle(l, addr, auth, vault, sellerHolding, 1, item.Seller); err != nil {
		return nil, err
	}

	logger.Info("delisted shelf item", "item", addr)
	return item, nil
}

func ListShelfItems(l Accounts) ([]*ShelfItem, error) {
	var out []*ShelfItem
	err := listTagged(l, shelfTag, func(acc *ledgerdb.Account) error {
		item := new(ShelfItem)
		if err := decode(acc.Address, acc.Data, item); err != nil {
			return err
		}
		out = append(out, item)
		return nil
	})
	return out, err
}
