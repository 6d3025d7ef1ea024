package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"resale-ledger/internal/adapters/cli"
	"resale-ledger/internal/adapters/repl"
	"resale-ledger/internal/bootstrap"
	"resale-ledger/internal/config"
	"resale-ledger/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.ValidateStore(); err != nil {
		log.Fatalf("config: %v", err)
	}

	// Terminal sessions log warnings only; stdout belongs to the commands.
	logger := logging.Must("warn", "console")
	defer logger.Sync()

	ctx := context.Background()
	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Unable to open store", zap.Error(err))
	}
	defer closeStore()

	svc := bootstrap.NewAppService(cfg, store, nil, logger)

	if len(os.Args) > 1 {
		cli.Run(ctx, svc, os.Args[1:])
		return
	}
	repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
}
