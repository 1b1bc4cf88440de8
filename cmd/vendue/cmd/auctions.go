package cmd

import (
	"fmt"
	"github.com/kurumiimari/vendue/api"
	"github.com/kurumiimari/vendue/auction"
	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"os"
	"time"
)

var (
	durationItems = []string{
		"10 minutes",
		"1 hour",
		"8 hours",
		"1 day",
		"3 days",
		"1 week",
	}
	durationValues = []time.Duration{
		10 * time.Minute,
		time.Hour,
		8 * time.Hour,
		24 * time.Hour,
		72 * time.Hour,
		7 * 24 * time.Hour,
	}

	auctionID       uint64
	auctionDuration time.Duration
	auctionCooldown time.Duration
	listAll         bool
	listCount       int
	listOffset      int
)

var auctionsCmd = &cobra.Command{
	Use:   "auction",
	Short: "Creates, bids on and settles English auctions",
	Aliases: []string{
		"auctions",
	},
}

var auctionCreateCmd = &cobra.Command{
	Use:   "create <asset-id> <starting-bid>",
	Short: "Auctions one unit of an asset held by the selected key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		assetID, err := addressArg(args[0])
		if err != nil {
			return err
		}
		startingBid, err := parseAmount(args[1])
		if err != nil {
			return err
		}

		duration := auctionDuration
		if duration == 0 {
			durationSel := promptui.Select{
				Label: "Auction duration:",
				Items: durationItems,
			}
			i, _, err := durationSel.Run()
			if err != nil {
				return err
			}
			duration = durationValues[i]
		}

		id := auctionID
		if id == 0 {
			id = randomSeed()
		}

		confirm, err := promptBool(fmt.Sprintf("Auction %s starting at %s for %s", assetID, formatAmount(startingBid), duration))
		if err != nil {
			return err
		}
		if !confirm {
			fmt.Println("Aborted.")
			os.Exit(0)
		}

		client, err := apiClient()
		if err != nil {
			return err
		}
		priv, err := signingKey()
		if err != nil {
			return err
		}
		rec, err := client.CreateAuction(priv, &api.CreateAuctionReq{
			AuctionID:    id,
			AssetID:      assetID,
			StartingBid:  startingBid,
			DurationSecs: int64(duration / time.Second),
			CooldownSecs: int64(auctionCooldown / time.Second),
		})
		if err != nil {
			return err
		}
		return printJSON(rec)
	},
}

var auctionBidCmd = &cobra.Command{
	Use:   "bid <auction-address> <amount>",
	Short: "Outbids the current highest bidder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := addressArg(args[0])
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
		rec, err := client.GetAuction(addr)
		if err != nil {
			return err
		}
		if amount <= rec.HighestBid {
			return errors.Errorf("bid must exceed %s", formatAmount(rec.HighestBid))
		}
		priv, err := signingKey()
		if err != nil {
			return err
		}
		// refund whoever holds the high bid as of the read above; the node
		// rejects the bid if someone else outbids first
		rec, err = client.PlaceBid(priv, &api.BidReq{
			Auction:        addr,
			Amount:         amount,
			PreviousBidder: rec.HighestBidder,
		})
		if err != nil {
			return err
		}
		return printJSON(rec)
	},
}

var auctionFinalizeCmd = &cobra.Command{
	Use:   "finalize <auction-address>",
	Short: "Settles an ended auction",
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
		rec, err := client.GetAuction(addr)
		if err != nil {
			return err
		}
		settlement, err := client.FinalizeAuction(addr, &api.FinalizeReq{
			Winner: rec.HighestBidder,
			Seller: rec.Seller,
		})
		if err != nil {
			return err
		}
		return printJSON(settlement)
	},
}

var auctionShowCmd = &cobra.Command{
	Use:   "show <auction-address>",
	Short: "Shows an auction",
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
		rec, err := client.GetAuction(addr)
		if err != nil {
			return err
		}
		return printJSON(auctionView(rec))
	},
}

var auctionListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists auctions",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		recs, err := client.ListAuctions(!listAll, listCount, listOffset)
		if err != nil {
			return err
		}
		out := make([]map[string]interface{}, 0, len(recs))
		for _, rec := range recs {
			out = append(out, auctionView(rec))
		}
		return printJSON(out)
	},
}

func auctionView(rec *auction.Record) map[string]interface{} {
	return map[string]interface{}{
		"address":        rec.Address,
		"seller":         rec.Seller,
		"asset_id":       rec.AssetID,
		"highest_bidder": rec.HighestBidder,
		"highest_bid":    formatAmount(rec.HighestBid),
		"ends_at":        time.Unix(rec.EndTime, 0).UTC().Format(time.RFC3339),
		"is_active":      rec.IsActive,
	}
}

func init() {
	rootCmd.AddCommand(auctionsCmd)
	auctionsCmd.AddCommand(auctionCreateCmd)
	auctionsCmd.AddCommand(auctionBidCmd)
	auctionsCmd.AddCommand(auctionFinalizeCmd)
	auctionsCmd.AddCommand(auctionShowCmd)
	auctionsCmd.AddCommand(auctionListCmd)
	auctionCreateCmd.Flags().Uint64Var(&auctionID, "id", 0, "Sets the auction id (random if unset)")
	auctionCreateCmd.Flags().DurationVar(&auctionDuration, "duration", 0, "Sets the auction duration (prompts if unset)")
	auctionCreateCmd.Flags().DurationVar(&auctionCooldown, "cooldown", 5*time.Minute, "Sets the minimum time left after each bid")
	auctionListCmd.Flags().BoolVar(&listAll, "all", false, "Includes inactive auctions")
	auctionListCmd.Flags().IntVar(&listCount, "count", 50, "Number of auctions to list")
	auctionListCmd.Flags().IntVar(&listOffset, "offset", 0, "Number of auctions to skip")
}
