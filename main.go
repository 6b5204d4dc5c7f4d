package main

import (
	"time"

	"github.com/stayloop/rewards/config"
	"github.com/stayloop/rewards/models"
	"github.com/stayloop/rewards/points"
	"github.com/stayloop/rewards/routes"
	"github.com/stayloop/rewards/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.PointsRule{},
		&models.PointTransaction{},
		&models.UserPoints{},
		&models.DailyCheckIn{},
		&models.Follow{},
	)

	if err := points.SeedDefaultRules(db); err != nil {
		utils.Sugar.Errorf("seeding default rules failed: %v", err)
	}

	bonuses := make([]points.StreakBonus, 0, len(cfg.StreakBonuses))
	for _, b := range cfg.StreakBonuses {
		bonuses = append(bonuses, points.StreakBonus{Days: b.Days, Bonus: b.Bonus})
	}
	rules := points.NewGormRuleStore(db)
	engine := points.NewEngine(db, rules, points.Options{
		CheckInBasePoints: cfg.CheckInBasePoints,
		StreakBonuses:     bonuses,
	})

	engine.StartAuditor(time.Hour, 200)

	r := routes.SetupRouter(db, engine, rules)

	utils.Sugar.Infof("Starting rewards service on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
