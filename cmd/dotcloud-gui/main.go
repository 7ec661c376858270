package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/Zyko0/go-sdl3/bin/binimg"
	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/Zyko0/go-sdl3/bin/binttf"
	"go.uber.org/zap"

	"dotcloud/engine"
	"dotcloud/present"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	defer binsdl.Load().Unload()
	defer binimg.Load().Unload()
	defer binttf.Load().Unload()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, ok := present.RunGuiSetup(engine.DefaultConfig(), engine.CacheFile, logger)
	if !ok {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := present.Run(ctx, cfg, logger)
	if err != nil {
		logger.Error("session failed", zap.Error(err))
		return
	}
	fmt.Printf("%d trials saved to %s\n", len(res.Records), res.Path)
}
