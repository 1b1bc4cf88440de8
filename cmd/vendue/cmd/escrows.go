package cmd

import (
	"github.com/kurumiimari/vendue/api"
	"github.com/spf13/cobra"
)

var listingSeed uint64

var escrowCmd = &cobra.Command{
	Use:   "escrow",
	Short: "Swaps one asset for another through an escrow",
	Aliases: []string{
		"escrows",
	},
}

var escrowMakeCmd = &cobra.Command{
	Use:   "make <offered-asset> <deposit> <requested-asset> <receive>",
	Short: "Locks an amount of one asset until someone pays the requested asset",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		offered, err := addressArg(args[0])
		if err != nil {
			return err
		}
		deposit, err := uint64Arg(args[1], "deposit")
		if err != nil {
			return err
		}
		requested, err := addressArg(args[2])
		if err != nil {
			return err
		}
		receive, err := uint64Arg(args[3], "receive amount")
		if err != nil {
			return err
		}
		client, err := apiClient()
		if err != nil {
			return err
		}
		priv, err := signingKey()
		if err != nil {
			return err
		}
		esc, err := client.MakeEscrow(priv, &api.MakeEscrowReq{
			Seed:      seedOrRandom(),
			Offered:   offered,
			Requested: requested,
			Deposit:   deposit,
			Receive:   receive,
		})
		if err != nil {
			return err
		}
		return printJSON(esc)
	},
}

var escrowTakeCmd = &cobra.Command{
	Use:   "take <escrow-address>",
	Short: "Pays the requested asset and receives the deposit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := addressArg(args[0])
		if err != nil {
			return err
		}
		client, err := apiClient()
		if err != nil {
			return err
		}
		priv, err := signingKey()
		if err != nil {
			return err
		}
		esc, err := client.TakeEscrow(priv, addr)
		if err != nil {
			return err
		}
		return printJSON(esc)
	},
}

var escrowRefundCmd = &cobra.Command{
	Use:   "refund <escrow-address>",
	Short: "Cancels an escrow and returns the deposit to its maker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := addressArg(args[0])
		if err != nil {
			return err
		}
		client, err := apiClient()
		if err != nil {
			return err
		}
		priv, err := signingKey()
		if err != nil {
			return err
		}
		esc, err := client.RefundEscrow(priv, addr)
		if err != nil {
			return err
		}
		return printJSON(esc)
	},
}

var escrowShowCmd = &cobra.Command{
	Use:   "show <escrow-address>",
	Short: "Shows an escrow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := addressArg(args[0])
		if err != nil {
			return err
		}
		client, err := apiClient()
		if err != nil {
			return err
		}
		esc, err := client.GetEscrow(addr)
		if err != nil {
			return err
		}
		return printJSON(esc)
	},
}

var escrowListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists open escrows",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		escrows, err := client.ListEscrows(listCount, listOffset)
		if err != nil {
			return err
		}
		return printJSON(escrows)
	},
}

var shelfCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Sells single asset units at a fixed price",
}

var shelfListCmd = &cobra.Command{
	Use:   "sell <asset-id> <price>",
	Short: "Puts one unit of an asset on the shelf",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		assetID, err := addressArg(args[0])
		if err != nil {
			return err
		}
		price, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		client, err := apiClient()
		if err != nil {
			return err
		}
		priv, err := signingKey()
		if err != nil {
			return err
		}
		item, err := client.ListShelfItem(priv, &api.ListShelfItemReq{
			Seed:    seedOrRandom(),
			AssetID: assetID,
			Price:   price,
		})
		if err != nil {
			return err
		}
		return printJSON(item)
	},
}

var shelfBuyCmd = &cobra.Command{
	Use:   "buy <item-address>",
	Short: "Buys a shelf item at its price",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := addressArg(args[0])
		if err != nil {
			return err
		}
		client, err := apiClient()
		if err != nil {
			return err
		}
		priv, err := signingKey()
		if err != nil {
			return err
		}
		item, err := client.BuyShelfItem(priv, addr)
		if err != nil {
			return err
		}
		return printJSON(item)
	},
}

var shelfDelistCmd = &cobra.Command{
	Use:   "delist <item-address>",
	Short: "Takes an item off the shelf",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := addressArg(args[0])
		if err != nil {
			return err
		}
		client, err := apiClient()
		if err != nil {
			return err
		}
		priv, err := signingKey()
		if err != nil {
			return err
		}
		item, err := client.DelistShelfItem(priv, addr)
		if err != nil {
			return err
		}
		return printJSON(item)
	},
}

var shelfShowCmd = &cobra.Command{
	Use:   "show <item-address>",
	Short: "Shows a shelf item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := addressArg(args[0])
		if err != nil {
			return err
		}
		client, err := apiClient()
		if err != nil {
			return err
		}
		item, err := client.GetShelfItem(addr)
		if err != nil {
			return err
		}
		return printJSON(item)
	},
}

var shelfLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Lists shelf items",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		items, err := client.ListShelfItems(listCount, listOffset)
		if err != nil {
			return err
		}
		return printJSON(items)
	},
}

func seedOrRandom() uint64 {
	if listingSeed != 0 {
		return listingSeed
	}
	return randomSeed()
}

func init() {
	rootCmd.AddCommand(escrowCmd)
	escrowCmd.AddCommand(escrowMakeCmd)
	escrowCmd.AddCommand(escrowTakeCmd)
	escrowCmd.AddCommand(escrowRefundCmd)
	escrowCmd.AddCommand(escrowShowCmd)
	escrowCmd.AddCommand(escrowListCmd)
	escrowMakeCmd.Flags().Uint64Var(&listingSeed, "seed", 0, "Sets the escrow seed (random if unset)")
	escrowListCmd.Flags().IntVar(&listCount, "count", 50, "Number of escrows to list")
	escrowListCmd.Flags().IntVar(&listOffset, "offset", 0, "Number of escrows to skip")

	rootCmd.AddCommand(shelfCmd)
	shelfCmd.AddCommand(shelfListCmd)
	shelfCmd.AddCommand(shelfBuyCmd)
	shelfCmd.AddCommand(shelfDelistCmd)
	shelfCmd.AddCommand(shelfShowCmd)
	shelfCmd.AddCommand(shelfLsCmd)
	shelfListCmd.Flags().Uint64Var(&listingSeed, "seed", 0, "Sets the listing seed (random if unset)")
	shelfLsCmd.Flags().IntVar(&listCount, "count", 50, "Number of items to list")
	shelfLsCmd.Flags().IntVar(&listOffset, "offset", 0, "Number of items to skip")
}
