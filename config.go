package vendue

import (
	"github.com/kurumiimari/vendue/chain"
)

type config struct {
	Network *chain.Network
	Prefix  string
	NodeURL string
	APIKey  string
	KeyName string
}

var Config = new(config)
