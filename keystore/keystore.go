package keystore

import (
	"encoding/json"
	"github.com/btcsuite/btcd/btcec"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/log"
	"github.com/pkg/errors"
	"io/ioutil"
	"os"
	"regexp"
)

var (
	ErrKeyExists       = errors.New("key already exists")
	ErrKeyNotFound     = errors.New("key not found")
	ErrInvalidKeyName  = errors.New("key names must be 1-64 lowercase letters, digits, dashes or underscores")
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	keyNameRegex = regexp.MustCompile("^[a-z0-9_-]{1,64}$")

	logger = log.ModuleLogger("keystore")
)

// KeyFile is an encrypted mnemonic plus the derivation of the signing
// key it unlocks. The address is stored in the clear so keys can be
// listed without a password.
type KeyFile struct {
	Name       string           `json:"name"`
	Address    string           `json:"address"`
	Derivation chain.Derivation `json:"derivation"`
	Box        json.RawMessage  `json:"box"`
}

type Keystore struct {
	dir     *DataDir
	network *chain.Network
	params  Argon2Params
}

func New(dir *DataDir, network *chain.Network) (*Keystore, error) {
	if err := dir.EnsureNetwork(network.Name); err != nil {
		return nil, err
	}
	return &Keystore{
		dir:     dir,
		network: network,
		params:  DefaultArgon2Params,
	}, nil
}

// WithParams overrides the key stretching used for new key files.
func (k *Keystore) WithParams(params Argon2Params) *Keystore {
	k.params = params
	return k
}

func (k *Keystore) Create(name, mnemonic, password string, account uint32) (*KeyFile, error) {
	if !keyNameRegex.MatchString(name) {
		return nil, errors.WithStack(ErrInvalidKeyName)
	}
	if !chain.IsMnemonicValid(mnemonic) {
		return nil, errors.WithStack(ErrInvalidMnemonic)
	}

	keyPath := k.dir.KeyPath(k.network.Name, name)
	if _, err := os.Stat(keyPath); err == nil {
		return nil, errors.Wrapf(ErrKeyExists, "key %s", name)
	}

	derivation := chain.SigningDerivation(k.network, account)
	master := chain.NewMasterExtendedKeyFromMnemonic(mnemonic, "", k.network)
	box, err := NewArgon2AESGCM256SecretBox([]byte(mnemonic), password, k.params)
	if err != nil {
		return nil, err
	}
	boxJ, err := json.Marshal(box)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	kf := &KeyFile{
		Name:       name,
		Address:    master.Derive(derivation).Address().String(),
		Derivation: derivation,
		Box:        boxJ,
	}
	kfJ, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := ioutil.WriteFile(keyPath, kfJ, 0o600); err != nil {
		return nil, errors.Wrap(err, "error writing key file")
	}
	logger.Info("created key", "name", name, "address", kf.Address)
	return kf, nil
}

func (k *Keystore) Load(name string) (*KeyFile, error) {
	if !keyNameRegex.MatchString(name) {
		return nil, errors.WithStack(ErrInvalidKeyName)
	}
	data, err := ioutil.ReadFile(k.dir.KeyPath(k.network.Name, name))
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrKeyNotFound, "key %s", name)
	}
	if err != nil {
		return nil, errors.Wrap(err, "error reading key file")
	}
	kf := new(KeyFile)
	if err := json.Unmarshal(data, kf); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling key file")
	}
	return kf, nil
}

func (k *Keystore) List() ([]string, error) {
	return k.dir.ListKeys(k.network.Name)
}

// Unlock decrypts the mnemonic and derives the signing key.
func (k *Keystore) Unlock(kf *KeyFile, password string) (*btcec.PrivateKey, error) {
	box, err := UnmarshalSecretBox(kf.Box)
	if err != nil {
		return nil, err
	}
	mnemonic, err := box.Decrypt(password)
	if err != nil {
		return nil, err
	}
	return chain.NewMasterExtendedKeyFromMnemonic(string(mnemonic), "", k.network).
		Derive(kf.Derivation).
		PrivateKey()
}
