package cmd

import (
	"github.com/kurumiimari/vendue"
	"github.com/kurumiimari/vendue/api"
	"github.com/spf13/cobra"
	"gopkg.in/tomb.v2"
	"os"
	"os/signal"
	"syscall"
)

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Runs and inspects the settlement node",
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Returns status information about the node",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		status, err := client.Status()
		if err != nil {
			return err
		}
		return printJSON(status)
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Starts the vendue daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		tmb := new(tomb.Tomb)

		go func() {
			sigC := make(chan os.Signal, 1)
			signal.Notify(sigC, syscall.SIGTERM, syscall.SIGINT)
			select {
			case sig := <-sigC:
				cmdLogger.Info("caught signal, shutting down", "signal", sig.String())
				tmb.Kill(nil)
				return
			case <-tmb.Dying():
				return
			}
		}()

		return api.Start(tmb, vendue.Config.Network, vendue.Config.Prefix, vendue.Config.APIKey)
	},
}

func init() {
	rootCmd.AddCommand(nodeCmd)
	nodeCmd.AddCommand(statusCmd)
	nodeCmd.AddCommand(startCmd)
}
