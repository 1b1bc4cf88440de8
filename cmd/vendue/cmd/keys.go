package cmd

import (
	"fmt"
	"github.com/kurumiimari/vendue"
	"github.com/kurumiimari/vendue/chain"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"strings"
)

var keyAccountIndex uint32

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manages local signing keys",
}

var keysNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generates a new signing key",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := confirmPassword()
		if err != nil {
			return err
		}
		mnemonic := chain.GenerateMnemonic()
		ks, err := openKeystore()
		if err != nil {
			return err
		}
		kf, err := ks.Create(vendue.Config.KeyName, mnemonic, password, keyAccountIndex)
		if err != nil {
			return errors.Wrap(err, "error creating key")
		}

		fmt.Printf("Key %s created with address %s.\n", kf.Name, kf.Address)
		fmt.Println("Please take note of your seed phrase below.")
		fmt.Println("STORE YOUR SEED PHRASE SECURELY. IT WILL NOT BE SHOWN AGAIN.")
		fmt.Println("")
		fmt.Println(mnemonic)
		return nil
	},
}

var keysImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Imports a signing key from a mnemonic",
	RunE: func(cmd *cobra.Command, args []string) error {
		mnemonic, err := readSecret("Please paste in your mnemonic: ")
		if err != nil {
			return err
		}
		password, err := confirmPassword()
		if err != nil {
			return err
		}
		ks, err := openKeystore()
		if err != nil {
			return err
		}
		kf, err := ks.Create(vendue.Config.KeyName, strings.TrimSpace(mnemonic), password, keyAccountIndex)
		if err != nil {
			return errors.Wrap(err, "error importing key")
		}
		fmt.Printf("Key %s imported with address %s.\n", kf.Name, kf.Address)
		return nil
	},
}

var keysAddressCmd = &cobra.Command{
	Use:   "address",
	Short: "Prints the address of the selected key",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := keyAddress()
		if err != nil {
			return err
		}
		fmt.Println(addr.String())
		return nil
	},
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists local keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		ks, err := openKeystore()
		if err != nil {
			return err
		}
		names, err := ks.List()
		if err != nil {
			return err
		}
		return printJSON(names)
	},
}

func confirmPassword() (string, error) {
	password, err := readSecret("Please enter a password to encrypt your key: ")
	if err != nil {
		return "", err
	}
	confirm, err := readSecret("Please confirm your password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysNewCmd)
	keysCmd.AddCommand(keysImportCmd)
	keysCmd.AddCommand(keysAddressCmd)
	keysCmd.AddCommand(keysListCmd)
	keysCmd.PersistentFlags().Uint32Var(&keyAccountIndex, "account-index", 0, "Sets the account index of the derived key")
}
