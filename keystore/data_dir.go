package keystore

import (
	"github.com/pkg/errors"
	"io/ioutil"
	"os"
	"path"
	"strings"
	"sync"
)

const keyFileExt = ".json"

type DataDir struct {
	prefix string
	mtx    sync.Mutex
}

func NewDataDir(prefix string) (*DataDir, error) {
	res := &DataDir{
		prefix: prefix,
	}
	if err := res.createPrefix(); err != nil {
		return nil, errors.Wrap(err, "error creating prefix")
	}
	return res, nil
}

func (d *DataDir) Prefix() string {
	return d.prefix
}

// EnsureNetwork creates the network directory and its keys directory.
func (d *DataDir) EnsureNetwork(networkName string) error {
	if err := d.ensureDir(d.NetworkPath(networkName)); err != nil {
		return errors.Wrap(err, "error ensuring network directory")
	}
	if err := d.ensureDir(d.keysDir(networkName)); err != nil {
		return errors.Wrap(err, "error ensuring keys directory")
	}
	return nil
}

func (d *DataDir) ListKeys(networkName string) ([]string, error) {
	files, err := ioutil.ReadDir(d.keysDir(networkName))
	if os.IsNotExist(err) {
		return make([]string, 0), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "error listing keys directory")
	}

	out := make([]string, 0)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), keyFileExt) {
			continue
		}
		out = append(out, strings.TrimSuffix(f.Name(), keyFileExt))
	}
	return out, nil
}

func (d *DataDir) NetworkPath(networkName string) string {
	return path.Join(d.prefix, networkName)
}

func (d *DataDir) KeyPath(networkName, keyName string) string {
	return path.Join(d.keysDir(networkName), keyName+keyFileExt)
}

func (d *DataDir) ensureDir(dirPath string) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	dirExists, err := d.dirExists(dirPath)
	if err != nil {
		return err
	}
	if dirExists {
		return nil
	}
	if err := os.Mkdir(dirPath, 0o700); err != nil {
		return errors.Wrap(err, "error creating directory")
	}
	return nil
}

func (d *DataDir) createPrefix() error {
	if strings.HasPrefix(d.prefix, "~") {
		hd, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "error reading home directory")
		}
		d.prefix = strings.Replace(d.prefix, "~", hd, 1)
	}

	if err := d.ensureDir(d.prefix); err != nil {
		return errors.Wrap(err, "error opening prefix")
	}
	return nil
}

func (d *DataDir) dirExists(path string) (bool, error) {
	stat, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, errors.Wrap(err, "directory read error")
	}
	if !stat.IsDir() {
		return false, errors.New("not a directory")
	}
	return true, nil
}

func (d *DataDir) keysDir(networkName string) string {
	return path.Join(d.prefix, networkName, "keys")
}
