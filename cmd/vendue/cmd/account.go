package cmd

import (
	"fmt"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/node"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Inspects and moves native value",
}

type accountView struct {
	Address  *chain.Address      `json:"address"`
	Balance  string              `json:"balance"`
	Deposit  string              `json:"deposit"`
	Holdings []*node.HoldingInfo `json:"holdings"`
}

var accountBalanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Shows the balance and holdings of an address",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := addressOrKey(args)
		if err != nil {
			return err
		}
		client, err := apiClient()
		if err != nil {
			return err
		}
		info, err := client.Account(addr)
		if err != nil {
			return err
		}
		return printJSON(&accountView{
			Address:  info.Address,
			Balance:  formatAmount(info.Balance),
			Deposit:  formatAmount(info.Deposit),
			Holdings: info.Holdings,
		})
	},
}

var accountAirdropCmd = &cobra.Command{
	Use:   "airdrop <amount> [address]",
	Short: "Requests value from the faucet (test networks only)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		addr, err := addressOrKey(args[1:])
		if err != nil {
			return err
		}
		client, err := apiClient()
		if err != nil {
			return err
		}
		if err := client.Airdrop(addr, amount); err != nil {
			return err
		}
		fmt.Printf("Airdropped %s to %s.\n", formatAmount(amount), addr)
		return nil
	},
}

var accountSendCmd = &cobra.Command{
	Use:   "send <recipient-address> <amount>",
	Short: "Sends native value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := addressArg(args[0])
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[1])
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
		if err := client.Transfer(priv, to, amount); err != nil {
			return err
		}
		fmt.Printf("Sent %s to %s.\n", formatAmount(amount), to)
		return nil
	},
}

var accountMintCmd = &cobra.Command{
	Use:   "mint <label> <supply>",
	Short: "Issues a new asset to the selected key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		supply, err := uint64Arg(args[1], "supply")
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
		id, err := client.MintAsset(priv, args[0], supply)
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{
			"asset_id": id,
			"label":    args[0],
			"supply":   supply,
		})
	},
}

func addressOrKey(args []string) (*chain.Address, error) {
	if len(args) > 0 {
		return addressArg(args[0])
	}
	return keyAddress()
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountBalanceCmd)
	accountCmd.AddCommand(accountAirdropCmd)
	accountCmd.AddCommand(accountSendCmd)
	accountCmd.AddCommand(accountMintCmd)
}
