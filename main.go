package main

import (
	"context"
	"os"

	"github.com/txix-open/isp-kit/log"
	"github.com/txix-open/isp-kit/shutdown"
	"chat-gate-service/assembly"
	"chat-gate-service/conf"
)

var (
	version = "1.0.0"
)

func main() {
	ctx := context.Background()

	cfg, err := conf.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := log.New(log.WithLevel(cfg.Logging.LogLevel()))
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	logger.Info(ctx, "starting chat-gate-service", log.String("version", version))

	asm, err := assembly.New(cfg, logger)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	shutdown.On(func() {
		logger.Info(ctx, "starting shutdown")
		_ = asm.Close()
		logger.Info(ctx, "shutdown completed")
		os.Exit(0)
	})

	err = asm.Run(ctx)
	if err != nil {
		_ = asm.Close()
		logger.Fatal(ctx, err)
	}
}
