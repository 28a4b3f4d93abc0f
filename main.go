package main

import (
	"log"
	"time"

	"github.com/cppla/minisocial/config"
	"github.com/cppla/minisocial/models"
	"github.com/cppla/minisocial/routes"
	"github.com/cppla/minisocial/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db, err := config.InitDatabase(cfg, models.All()...)
	if err != nil {
		utils.Sugar.Fatalf("init database: %v", err)
	}

	sessions := utils.NewSessionManager(
		cfg.SessionSecret,
		time.Duration(cfg.SessionTTLHours)*time.Hour,
		cfg.SessionCookie,
		cfg.SessionSecure,
		utils.NewBlacklist(utils.NewRedis(cfg)),
	)

	r, err := routes.SetupRouter(cfg, db, sessions)
	if err != nil {
		utils.Sugar.Fatalf("setup router: %v", err)
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r,
		time.Duration(cfg.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.WriteTimeoutSec)*time.Second,
	); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
