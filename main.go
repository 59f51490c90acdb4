package main

import (
	"context"
	"log/slog"
	"mematlas/app/config"
	"mematlas/app/service/graph"
	"mematlas/app/service/location"
	"mematlas/app/service/mcpserver"
	"mematlas/app/service/recorder"
	"mematlas/app/util/mylog"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, graph.New)
	do.Provide(di, location.New)
	do.Provide(di, recorder.New)
	do.Provide(di, mcpserver.New)

	slog.Info("Service started",
		"transport", cfg.Server.Transport,
		"storage", cfg.Storage.File,
	)

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go func() {
		if err := do.MustInvoke[*mcpserver.Service](di).Run(appCtx); err != nil {
			log.Errorf("server stopped: %v", err)
		}

		cancel()
	}()

	<-appCtx.Done()
}
