package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Easy-QFNU/W1ndysBot/internal/config"
	"github.com/Easy-QFNU/W1ndysBot/internal/model"
)

func TestClassify(t *testing.T) {
	c := classifier{cfg: config.DefaultGame()}

	tests := []struct {
		name string
		text string
		want Command
	}{
		{"开关", "阳光雨露", Command{Kind: CmdSwitch}},
		{"菜单", "阳光雨露菜单", Command{Kind: CmdMenu}},
		{"签到", "签到", Command{Kind: CmdCheckin}},
		{"选择无参数", "选择", Command{Kind: CmdSelect}},
		{"选择带参数", "选择 阳光", Command{Kind: CmdSelect}},
		{"查询", "查询", Command{Kind: CmdQuery}},
		{"排行榜", "排行榜", Command{Kind: CmdRanking}},
		{"排行榜指定阳光", "排行榜 阳光", Command{Kind: CmdRanking, Faction: model.FactionSun, HasFaction: true}},
		{"排行榜英文别名大小写不敏感", "排行榜 RAIN", Command{Kind: CmdRanking, Faction: model.FactionRain, HasFaction: true}},
		{"排行榜未知类型静默", "排行榜 星星", Command{Kind: CmdNone}},
		{"排行榜多余参数静默", "排行榜 阳光 雨露", Command{Kind: CmdNone}},
		{"抽阳光", "抽阳光", Command{Kind: CmdLottery, Faction: model.FactionSun, HasFaction: true}},
		{"抽太阳", "抽太阳", Command{Kind: CmdLottery, Faction: model.FactionSun, HasFaction: true}},
		{"抽雨露", "抽雨露", Command{Kind: CmdLottery, Faction: model.FactionRain, HasFaction: true}},
		{"抽雨", "抽雨", Command{Kind: CmdLottery, Faction: model.FactionRain, HasFaction: true}},
		{"抽奖带空格静默", "抽 阳光", Command{Kind: CmdNone}},
		{"抽奖未知类型静默", "抽星星", Command{Kind: CmdNone}},
		{"普通发言", "今天天气真好", Command{Kind: CmdSpeech}},
		{"首尾空白被忽略", "  今天天气真好  ", Command{Kind: CmdSpeech}},
		{"单字符不算发言", "好", Command{Kind: CmdNone}},
		{"含签到关键词的闲聊静默", "我要去签到啦", Command{Kind: CmdNone}},
		{"含help的闲聊静默", "help me", Command{Kind: CmdNone}},
		{"空消息静默", "", Command{Kind: CmdNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.classify(tt.text))
		})
	}
}
