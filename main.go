package main

import (
	"github.com/luminalms/rewards/config"
	"github.com/luminalms/rewards/models"
	"github.com/luminalms/rewards/routes"
	"github.com/luminalms/rewards/services"
	"github.com/luminalms/rewards/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.Account{},
		&models.RewardEvent{},
		&models.Badge{},
		&models.UserBadge{},
		&models.StoreItem{},
		&models.UserPurchase{},
		&models.Gift{},
	)

	if err := services.SeedDefaultBadges(db); err != nil {
		utils.Sugar.Warnf("badge catalog seeding failed: %v", err)
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting rewards engine on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
