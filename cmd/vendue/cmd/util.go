package cmd

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"github.com/btcsuite/btcd/btcec"
	"github.com/kurumiimari/vendue"
	"github.com/kurumiimari/vendue/api"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/keystore"
	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/ssh/terminal"
	"math/big"
	"strconv"
	"strings"
	"syscall"
)

// unitDecimals is the number of base units in one whole unit of value,
// as a power of ten.
const unitDecimals = 6

func apiClient() (*api.Client, error) {
	url := vendue.Config.NodeURL
	if url == "" {
		url = fmt.Sprintf("http://localhost:%d", vendue.Config.Network.Port)
	}

	client := api.NewClient(url, vendue.Config.APIKey)

	_, err := client.Status()
	if err != nil {
		if strings.Contains(err.Error(), "connection refused") {
			return nil, errors.New("connection to vendue refused - did you select the right network?")
		}
		return nil, err
	}

	return client, nil
}

func openKeystore() (*keystore.Keystore, error) {
	return keystore.New(dataDir, vendue.Config.Network)
}

// signingKey prompts for the password of the selected key and unlocks it.
func signingKey() (*btcec.PrivateKey, error) {
	ks, err := openKeystore()
	if err != nil {
		return nil, err
	}
	kf, err := ks.Load(vendue.Config.KeyName)
	if err != nil {
		return nil, err
	}
	password, err := readSecret(fmt.Sprintf("Password for key %s: ", kf.Name))
	if err != nil {
		return nil, err
	}
	return ks.Unlock(kf, password)
}

// keyAddress returns the address of the selected key without unlocking it.
func keyAddress() (*chain.Address, error) {
	ks, err := openKeystore()
	if err != nil {
		return nil, err
	}
	kf, err := ks.Load(vendue.Config.KeyName)
	if err != nil {
		return nil, err
	}
	return chain.NewAddressFromBech32(kf.Address)
}

func readSecret(label string) (string, error) {
	fmt.Print(label)
	// need the cast below for it to compile on windows
	b, err := terminal.ReadPassword(int(syscall.Stdin))
	fmt.Println("")
	if err != nil {
		return "", errors.Wrap(err, "error reading input")
	}
	return string(b), nil
}

// parseAmount converts a whole-unit decimal string into base units.
func parseAmount(in string) (uint64, error) {
	amt, err := decimal.NewFromString(in)
	if err != nil {
		return 0, errors.New("invalid amount")
	}
	if amt.IsNegative() {
		return 0, errors.New("amount must not be negative")
	}
	base := amt.Shift(unitDecimals)
	if !base.Equal(base.Truncate(0)) {
		return 0, errors.Errorf("amount has more than %d decimal places", unitDecimals)
	}
	bi := base.BigInt()
	if !bi.IsUint64() {
		return 0, errors.New("amount too large")
	}
	return bi.Uint64(), nil
}

func formatAmount(in uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(in), -unitDecimals).StringFixed(unitDecimals)
}

func addressArg(in string) (*chain.Address, error) {
	addr, err := chain.NewAddressFromBech32(in)
	if err != nil {
		return nil, errors.Errorf("invalid address %s", in)
	}
	return addr, nil
}

func uint64Arg(in string, name string) (uint64, error) {
	out, err := strconv.ParseUint(in, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid %s", name)
	}
	return out, nil
}

func intArg(in string, deflt int) int {
	out, err := strconv.Atoi(in)
	if err != nil {
		return deflt
	}
	return out
}

func randomSeed() uint64 {
	return binary.LittleEndian.Uint64(keystore.RandBytes(8))
}

func promptBool(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	if err == promptui.ErrAbort {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func printJSON(in interface{}) error {
	out, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}
