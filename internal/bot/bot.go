package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Easy-QFNU/W1ndysBot/internal/config"
	"github.com/Easy-QFNU/W1ndysBot/internal/database"
	"github.com/Easy-QFNU/W1ndysBot/internal/ledger"
	"github.com/Easy-QFNU/W1ndysBot/internal/logger"
)

// StartBot 初始化依赖并进入消息循环。每条群消息在独立的协程中处理，
// 单条消息的失败不影响后续消息。
func StartBot(cfg *config.Config) error {
	db, err := database.InitDB(cfg.MysqlDSN)
	if err != nil {
		return err
	}

	store := ledger.NewStore(db, cfg.Game)
	if err := store.AutoMigrate(); err != nil {
		return err
	}

	rdb, err := database.InitRedisDB(cfg.RedisDSN)
	if err != nil {
		return err
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	logger.Sugar.Infof("已授权帐户 %s", botAPI.Self.UserName)

	engine := NewEngine(cfg.Game, store, NewSwitches(rdb), NewTelegramSender(botAPI), cfg.AdminUserIDs)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := botAPI.GetUpdatesChan(updateConfig)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		if update.Message.Chat == nil || (!update.Message.Chat.IsGroup() && !update.Message.Chat.IsSuperGroup()) {
			continue
		}

		msg, err := NewGroupMessage(update.Message)
		if err != nil {
			continue
		}

		go func(m *GroupMessage) {
			defer func() {
				if r := recover(); r != nil {
					logger.Sugar.Errorf("[%s]处理群消息失败: %v", moduleName, r)
				}
			}()
			engine.HandleGroupMessage(context.Background(), m)
		}(msg)
	}

	return nil
}
