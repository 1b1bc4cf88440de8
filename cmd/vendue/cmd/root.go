package cmd

import (
	"github.com/kurumiimari/vendue"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/keystore"
	"github.com/kurumiimari/vendue/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"os"
)

var (
	prefix   string
	network  string
	nodeURL  string
	apiKey   string
	keyName  string
	logLevel string
	logJSON  bool
)

var cmdLogger = log.ModuleLogger("cmd")

var rootCmd = &cobra.Command{
	Use:          "vendue",
	Short:        "An auction and escrow settlement node",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := log.SetLevel(logLevel); err != nil {
			return errors.Wrap(err, "invalid log level")
		}
		if logJSON {
			log.SetJSON()
		}

		network, err := chain.NetworkFromName(network)
		if err != nil {
			return errors.Wrap(err, "invalid network")
		}
		chain.SetCurrNetwork(network)

		dd, err := keystore.NewDataDir(prefix)
		if err != nil {
			return errors.Wrap(err, "invalid prefix")
		}
		if err := dd.EnsureNetwork(network.Name); err != nil {
			return errors.Wrap(err, "error creating network directory")
		}

		vendue.Config.Prefix = dd.NetworkPath(network.Name)
		vendue.Config.Network = network
		vendue.Config.NodeURL = nodeURL
		vendue.Config.APIKey = apiKey
		vendue.Config.KeyName = keyName
		dataDir = dd
		return nil
	},
}

var dataDir *keystore.DataDir

func init() {
	rootCmd.PersistentFlags().StringVar(&prefix, "prefix", "~/.vendue", "Sets vendue's data directory")
	rootCmd.PersistentFlags().StringVarP(&network, "network", "n", "main", "Sets vendue's network")
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "node-url", "u", "", "Sets a custom node API url")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Sets the node's API key")
	rootCmd.PersistentFlags().StringVarP(&keyName, "key", "k", "default", "Sets the signing key")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Sets the log level")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Logs JSON lines")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
