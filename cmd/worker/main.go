package main

import (
	"os"

	"primegames-media/internal/app/worker"
	"primegames-media/internal/config"

	"github.com/wb-go/wbf/zlog"
)

func main() {
	zlog.Init()

	cfg, err := config.MustLoad()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to load config")
	}

	sweeper, err := worker.NewSweeperApp(cfg, &zlog.Logger)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to create orphan sweeper")
	}

	if err := sweeper.Run(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Orphan sweeper failed")
	}

	zlog.Logger.Info().Msg("Orphan sweeper exited successfully")
	os.Exit(0)
}
