package api

import (
	"fmt"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/ledgerdb"
	"github.com/kurumiimari/vendue/node"
	"github.com/pkg/errors"
	"gopkg.in/tomb.v2"
	"net/http"
)

func Start(tmb *tomb.Tomb, network *chain.Network, prefix, apiKey string) error {
	chain.SetCurrNetwork(network)
	engine, err := ledgerdb.NewEngine(prefix)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := ledgerdb.MigrateDB(engine); err != nil {
		return err
	}

	service := node.NewNode(tmb, network, engine, nil)
	if err := service.Start(); err != nil {
		return errors.Wrap(err, "error starting node")
	}

	nodeAPI := NewAPI(network, service, apiKey)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", network.Port),
		Handler: nodeAPI,
	}

	tmb.Go(func() error {
		apiLogger.Info("starting HTTP server", "port", network.Port)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "error starting HTTP server")
		}
		return nil
	})

	apiLogger.Info("started node", "network", network.Name)
	<-tmb.Dying()
	srv.Close()
	apiLogger.Info("shut down node")
	return tmb.Err()
}
