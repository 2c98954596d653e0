package bot

import (
	"strings"
	"unicode/utf8"

	"github.com/Easy-QFNU/W1ndysBot/internal/config"
	"github.com/Easy-QFNU/W1ndysBot/internal/model"
)

// CommandKind 消息分类结果
type CommandKind int

const (
	CmdNone CommandKind = iota // 不处理
	CmdSwitch
	CmdMenu
	CmdCheckin
	CmdSelect
	CmdQuery
	CmdRanking
	CmdLottery
	CmdSpeech // 普通发言，走发言奖励
)

// Command 分类后的指令
type Command struct {
	Kind       CommandKind
	Faction    model.Faction // 排行榜/抽奖指定的阵营
	HasFaction bool
}

var sunAliases = map[string]struct{}{
	"阳光": {}, "阳光类型": {}, "阳光型": {}, "sun": {}, "sunshine": {},
}

var rainAliases = map[string]struct{}{
	"雨露": {}, "雨露类型": {}, "雨露型": {}, "rain": {}, "raindrop": {},
}

// 抽奖指令只接受中文别名，且紧跟在抽奖关键词后不带空格
var (
	lotterySunTokens  = []string{"阳光", "太阳"}
	lotteryRainTokens = []string{"雨露", "雨"}
)

// parseFactionAlias 解析阵营别名，大小写不敏感
func parseFactionAlias(s string) (model.Faction, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if _, ok := sunAliases[s]; ok {
		return model.FactionSun, true
	}
	if _, ok := rainAliases[s]; ok {
		return model.FactionRain, true
	}
	return 0, false
}

type classifier struct {
	cfg config.Game
}

// classify 对原始消息做顺序敏感的分类。开关和菜单指令最先判断，
// 不受群开关限制；排行榜只接受一到两个词的精确格式；其余都不匹配
// 且长度不少于两个字符的消息按普通发言处理。
func (c *classifier) classify(text string) Command {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	switch lower {
	case strings.ToLower(c.cfg.SwitchName):
		return Command{Kind: CmdSwitch}
	case strings.ToLower(c.cfg.SwitchName + c.cfg.MenuSuffix):
		return Command{Kind: CmdMenu}
	}

	if strings.HasPrefix(trimmed, c.cfg.SignInCommand) {
		return Command{Kind: CmdCheckin}
	}
	if strings.HasPrefix(trimmed, c.cfg.SelectCommand) {
		return Command{Kind: CmdSelect}
	}
	if strings.HasPrefix(trimmed, c.cfg.QueryCommand) {
		return Command{Kind: CmdQuery}
	}

	parts := strings.Fields(trimmed)
	if len(parts) >= 1 && parts[0] == c.cfg.RankingCommand {
		if len(parts) == 1 {
			return Command{Kind: CmdRanking}
		}
		if len(parts) == 2 {
			if faction, ok := parseFactionAlias(parts[1]); ok {
				return Command{Kind: CmdRanking, Faction: faction, HasFaction: true}
			}
		}
		// 不识别的类型或格式，静默处理
		return Command{Kind: CmdNone}
	}

	if strings.HasPrefix(trimmed, c.cfg.LotteryCommand) {
		for _, token := range lotterySunTokens {
			if trimmed == c.cfg.LotteryCommand+token {
				return Command{Kind: CmdLottery, Faction: model.FactionSun, HasFaction: true}
			}
		}
		for _, token := range lotteryRainTokens {
			if trimmed == c.cfg.LotteryCommand+token {
				return Command{Kind: CmdLottery, Faction: model.FactionRain, HasFaction: true}
			}
		}
		// 不符合格式，静默处理
		return Command{Kind: CmdNone}
	}

	if c.isSpeech(trimmed, lower) {
		return Command{Kind: CmdSpeech}
	}

	return Command{Kind: CmdNone}
}

// isSpeech 判断消息是否算作普通发言：至少两个字符，且不包含任何保留关键词
func (c *classifier) isSpeech(trimmed, lower string) bool {
	if utf8.RuneCountInString(trimmed) < 2 {
		return false
	}

	excludedPatterns := []string{
		c.cfg.SignInCommand,
		c.cfg.SelectCommand,
		c.cfg.QueryCommand,
		c.cfg.RankingCommand,
		c.cfg.LotteryCommand + "阳光",
		c.cfg.LotteryCommand + "太阳",
		c.cfg.LotteryCommand + "雨露",
		c.cfg.LotteryCommand + "雨",
		c.cfg.MenuSuffix,
		"help",
		"帮助",
		strings.ToLower(c.cfg.SwitchName),
		strings.ToLower(c.cfg.SwitchName + c.cfg.MenuSuffix),
	}

	for _, pattern := range excludedPatterns {
		if pattern == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return false
		}
	}
	return true
}
