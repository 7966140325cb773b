// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/ledgervm/ledgervm"
	"github.com/ava-labs/ledgervm/state"
)

const (
	vmEndpoint      = "/ext/ledger"
	metricsEndpoint = "/ext/metrics"

	shutdownTimeout = 5 * time.Second
)

func main() {
	v, err := getViper()
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}
	// Print version and exit
	if v.GetBool(versionKey) {
		fmt.Printf("%s@%s\n", ledgervm.Name, ledgervm.Version)
		os.Exit(0)
	}

	if err := run(v); err != nil {
		fmt.Printf("%s returned an error: %s\n", ledgervm.Name, err)
		os.Exit(1)
	}
}

func run(v *viper.Viper) error {
	lvl, err := log.LvlFromString(v.GetString(logLevelKey))
	if err != nil {
		return err
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stderr, log.TerminalFormat())))

	registry := prometheus.NewRegistry()
	vm, err := newVM(v, registry)
	if err != nil {
		return err
	}
	defer func() {
		if err := vm.Shutdown(); err != nil {
			log.Error("error shutting down vm", "err", err)
		}
	}()

	handlers, err := vm.CreateHandlers()
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	for extension, handler := range handlers {
		mux.Handle(vmEndpoint+extension, handler.Handler)
	}
	mux.Handle(metricsEndpoint, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	addr := net.JoinHostPort(v.GetString(httpHostKey), strconv.FormatUint(uint64(v.GetUint(httpPortKey)), 10))
	server := &http.Server{Addr: addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		log.Info("serving", "addr", addr, "endpoint", vmEndpoint)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newVM opens the chain state and initializes a VM over it with the
// configured genesis and VM config
func newVM(v *viper.Viper, registerer prometheus.Registerer) (*ledgervm.VM, error) {
	st, err := openState(v.GetString(dbDirKey))
	if err != nil {
		return nil, err
	}

	var genesisBytes []byte
	if genesisFile := v.GetString(genesisFileKey); genesisFile != "" {
		genesisBytes, err = os.ReadFile(genesisFile)
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("couldn't read genesis: %w", err)
		}
	}
	configBytes, err := vmConfigBytes(v)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	vm := &ledgervm.VM{}
	if err := vm.Initialize(st, genesisBytes, configBytes, registerer); err != nil {
		_ = st.Close()
		return nil, err
	}
	return vm, nil
}

func openState(dbDir string) (state.State, error) {
	if dbDir == "" {
		log.Info("using in-memory chain state")
		return state.NewState(memdb.New()), nil
	}
	log.Info("opening chain state", "dir", dbDir)
	return state.NewLevelDBState(dbDir)
}
