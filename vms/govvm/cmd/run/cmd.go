// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/database"
	"github.com/luxfi/database/badgerdb"
	"github.com/luxfi/database/corruptabledb"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/log"

	"github.com/luxfi/multigov/api/metrics"
	"github.com/luxfi/multigov/api/server"
	"github.com/luxfi/multigov/utils/profiler"
	"github.com/luxfi/multigov/vms/govvm"
)

const (
	// Base is the path the governance API is served under.
	Base = "gov"

	metricsBase = "metrics"
)

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "run",
		Short: "Runs a governance node",
		RunE:  runFunc,
	}
	flags := c.Flags()
	AddFlags(flags)
	return c
}

func runFunc(c *cobra.Command, args []string) error {
	config, err := ParseFlags(c.Flags(), args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Run(ctx, log.NewLogger("multigov"), config)
}

// Run serves a governance node until [ctx] is cancelled.
func Run(ctx context.Context, logger log.Logger, config *Config) error {
	genesisBytes, err := os.ReadFile(config.GenesisFile)
	if err != nil {
		return fmt.Errorf("failed to read genesis: %w", err)
	}
	var configBytes []byte
	if config.ConfigFile != "" {
		configBytes, err = os.ReadFile(config.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	db, err := openDB(config.DataDir, logger)
	if err != nil {
		return err
	}

	gatherer := metrics.NewPrefixGatherer()
	vmRegistry, err := metrics.MakeAndRegister(gatherer, govvm.Name)
	if err != nil {
		return errors.Join(err, db.Close())
	}
	apiRegistry, err := metrics.MakeAndRegister(gatherer, "api")
	if err != nil {
		return errors.Join(err, db.Close())
	}

	vm := &govvm.VM{}
	if err := vm.Initialize(db, genesisBytes, configBytes, logger, vmRegistry, nil); err != nil {
		return errors.Join(err, db.Close())
	}
	defer func() {
		if err := errors.Join(vm.Shutdown(), db.Close()); err != nil {
			logger.Error("failed to close state", log.Err(err))
		}
	}()

	listener, err := net.Listen("tcp", config.HTTPAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", config.HTTPAddress, err)
	}
	s, err := server.New(logger, listener, apiRegistry, server.Config{
		HTTPConfig: server.HTTPConfig{
			ReadHeaderTimeout: config.ReadHeaderTimeout,
			IdleTimeout:       config.IdleTimeout,
		},
		AllowedOrigins:  config.AllowedOrigins,
		AllowedHosts:    config.AllowedHosts,
		ShutdownTimeout: config.ShutdownTimeout,
		Version:         govvm.Version,
	})
	if err != nil {
		return errors.Join(err, listener.Close())
	}

	handlers, err := vm.CreateHandlers()
	if err != nil {
		return errors.Join(err, listener.Close())
	}
	for extension, handler := range handlers {
		if err := s.AddRoute(handler, Base, extension); err != nil {
			return errors.Join(err, listener.Close())
		}
	}
	metricsHandler := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	if err := s.AddRoute(metricsHandler, metricsBase, ""); err != nil {
		return errors.Join(err, listener.Close())
	}

	logger.Info("serving governance API",
		log.String("address", listener.Addr().String()),
		log.String("version", govvm.Version),
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(s.Dispatch)
	eg.Go(func() error {
		<-ctx.Done()
		return s.Shutdown()
	})
	if config.Profiler.Dir != "" {
		eg.Go(func() error {
			return profiler.New(config.Profiler).Dispatch(ctx)
		})
	}
	return eg.Wait()
}

// openDB opens the badger database in [dir], or an in-memory database when
// [dir] is empty.
func openDB(dir string, logger log.Logger) (database.Database, error) {
	if dir == "" {
		logger.Warn("no data directory provided, state will not persist")
		return corruptabledb.New(memdb.New(), logger), nil
	}
	db, err := badgerdb.New(dir, nil, "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database in %s: %w", dir, err)
	}
	return corruptabledb.New(db, logger), nil
}
