package bot

import (
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// GroupMessage 经过校验的群消息事件，进入指令引擎前所有字段已确认存在
type GroupMessage struct {
	ChatID    int64
	UserID    int64
	MessageID int
	Text      string
	Time      time.Time
}

// NewGroupMessage 从 Telegram 消息构造群消息事件
func NewGroupMessage(msg *tgbotapi.Message) (*GroupMessage, error) {
	if msg == nil {
		return nil, errors.New("空消息")
	}
	if msg.Chat == nil || msg.Chat.ID == 0 {
		return nil, errors.New("缺少群号")
	}
	if msg.From == nil || msg.From.ID == 0 {
		return nil, errors.New("缺少发送者")
	}
	if msg.Text == "" {
		return nil, errors.New("非文本消息")
	}

	return &GroupMessage{
		ChatID:    msg.Chat.ID,
		UserID:    msg.From.ID,
		MessageID: msg.MessageID,
		Text:      msg.Text,
		Time:      msg.Time(),
	}, nil
}
