package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"

	"github.com/razah7-lab/cairo-erc-2981/cmd/flags"
	"github.com/razah7-lab/cairo-erc-2981/httpserver"
	"github.com/razah7-lab/cairo-erc-2981/interfaces"
	"github.com/razah7-lab/cairo-erc-2981/registry"
	"github.com/razah7-lab/cairo-erc-2981/storage"
)

func main() {
	app := &cli.App{
		Name:  "registry-server",
		Usage: "Serve a token registry with royalty resolution over a JSON HTTP API",
		Flags: append([]cli.Flag{
			flags.ListenAddrFlag,
			flags.OwnerFlag,
			flags.RoyaltyReceiverFlag,
			flags.RoyaltyNumeratorFlag,
			flags.RoyaltyDenominatorFlag,
			flags.StorageFlag,
		}, flags.CommonFlags...),
		Action: runServer,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runServer(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	owner, err := interfaces.NewAddressFromHex(cCtx.String(flags.OwnerFlag.Name))
	if err != nil {
		logger.Error("Invalid owner address", "err", err)
		return fmt.Errorf("invalid owner address: %w", err)
	}

	defaultRoyalty, err := parseDefaultRoyalty(cCtx, owner)
	if err != nil {
		logger.Error("Invalid default royalty", "err", err)
		return err
	}

	// Optional snapshot/event-log persistence.
	var backend interfaces.StorageBackend
	if locations := cCtx.StringSlice(flags.StorageFlag.Name); len(locations) > 0 {
		locationURIs := make([]interfaces.StorageBackendLocation, len(locations))
		for i, loc := range locations {
			locationURIs[i] = interfaces.StorageBackendLocation(loc)
		}

		factory := storage.NewStorageBackendFactory(logger)
		backend, err = factory.CreateMultiBackend(locationURIs)
		if err != nil {
			logger.Error("Failed to create storage backends", "err", err)
			return err
		}
	}

	reg, err := registry.New(registry.Config{
		Owner:          owner,
		DefaultRoyalty: defaultRoyalty,
		Storage:        backend,
		Log:            logger,
	})
	if err != nil {
		logger.Error("Failed to create registry", "err", err)
		return err
	}

	cfg := flags.ConfigureServer(cCtx, logger, cCtx.String(flags.ListenAddrFlag.Name))
	server, err := httpserver.New(cfg, httpserver.NewHandler(reg, logger))
	if err != nil {
		logger.Error("Failed to create server", "err", err)
		return err
	}

	logger.Info("Starting server", "owner", owner.String())
	server.RunInBackground()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

	logger.Info("Server is running, press Ctrl+C to stop")
	<-exit
	logger.Info("Shutdown signal received")

	server.Shutdown()
	logger.Info("Server shutdown complete")

	return nil
}

func parseDefaultRoyalty(cCtx *cli.Context, owner interfaces.Address) (interfaces.RoyaltyConfig, error) {
	receiver := owner
	if raw := cCtx.String(flags.RoyaltyReceiverFlag.Name); raw != "" {
		var err error
		receiver, err = interfaces.NewAddressFromHex(raw)
		if err != nil {
			return interfaces.RoyaltyConfig{}, fmt.Errorf("invalid royalty receiver: %w", err)
		}
	}

	numerator, err := uint256.FromDecimal(cCtx.String(flags.RoyaltyNumeratorFlag.Name))
	if err != nil {
		return interfaces.RoyaltyConfig{}, fmt.Errorf("invalid royalty numerator: %w", err)
	}
	denominator, err := uint256.FromDecimal(cCtx.String(flags.RoyaltyDenominatorFlag.Name))
	if err != nil {
		return interfaces.RoyaltyConfig{}, fmt.Errorf("invalid royalty denominator: %w", err)
	}

	cfg := interfaces.RoyaltyConfig{
		Receiver:    receiver,
		Numerator:   numerator,
		Denominator: denominator,
	}
	return cfg, cfg.Validate()
}
