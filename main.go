package main

import (
	"context"
	"flag"
	"legal_eval_backend/internal/app"
	"legal_eval_backend/internal/config"
	"legal_eval_backend/pkg/logger"
	"log"
)

func main() {
	configPath := flag.String("config", "configs", "config.yaml 所在目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)

	// 迁移完成后直接退出
	if cfg.MigrateOnly {
		logger.Log.Info("Database migration finished")
		application.Close(context.Background())
		return
	}

	application.Run()
}
