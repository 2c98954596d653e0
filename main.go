package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/Easy-QFNU/W1ndysBot/internal/bot"
	"github.com/Easy-QFNU/W1ndysBot/internal/config"
	"github.com/Easy-QFNU/W1ndysBot/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("加载配置失败:", err)
	}

	if err := logger.Init(cfg); err != nil {
		log.Fatal("初始化日志失败:", err)
	}
	defer func() { _ = logger.Logger.Sync() }()

	if err := bot.StartBot(cfg); err != nil {
		logger.Sugar.Fatalf("启动失败: %v", err)
	}
}
