package bot

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Easy-QFNU/W1ndysBot/internal/logger"
)

// Sender 发送群消息。发送是尽力而为的：失败只记录日志，不影响事件处理。
type Sender interface {
	SendGroupMessage(chatID int64, replyToMessageID int, text string, deleteAfter time.Duration)
}

type telegramSender struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramSender 创建 Telegram 消息发送器
func NewTelegramSender(bot *tgbotapi.BotAPI) Sender {
	return &telegramSender{bot: bot}
}

// SendGroupMessage 发送回复消息，deleteAfter 大于零时延迟撤回
func (t *telegramSender) SendGroupMessage(chatID int64, replyToMessageID int, text string, deleteAfter time.Duration) {
	msgConfig := tgbotapi.NewMessage(chatID, text)
	msgConfig.ReplyToMessageID = replyToMessageID

	sentMsg, err := t.bot.Send(msgConfig)
	if err != nil {
		logger.Sugar.Errorf("发送消息错误: %v", err)
		return
	}

	if deleteAfter <= 0 {
		return
	}
	go func(messageID int) {
		time.Sleep(deleteAfter)
		deleteMsg := tgbotapi.NewDeleteMessage(chatID, messageID)
		if _, err := t.bot.Request(deleteMsg); err != nil {
			logger.Sugar.Errorf("删除消息错误: %v", err)
		}
	}(sentMsg.MessageID)
}
