package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all environment driven configuration values.
// Sensitive data (DSN, bot token) must come from the environment or a .env file.
type Config struct {
	TelegramAPIToken string `env:"TELEGRAM_API_TOKEN,required"`
	MysqlDSN         string `env:"MYSQL_DSN,required"`
	RedisDSN         string `env:"REDIS_DSN" envDefault:"redis://localhost:6379/0"`

	// 系统管理员，可切换群聊开关
	AdminUserIDs []int64 `env:"ADMIN_USER_IDS" envSeparator:","`

	// Logging configuration
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogPath       string `env:"LOG_PATH"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"7"`
	LogCompress   bool   `env:"LOG_COMPRESS" envDefault:"false"`

	Game Game
}

// Game 游戏规则配置，构造后不再修改，传入账本和指令引擎
type Game struct {
	// 签到奖励
	CheckinReward int `env:"CHECKIN_REWARD" envDefault:"10"`

	// 抽奖花费与奖励区间
	LotteryCost      int `env:"LOTTERY_COST" envDefault:"10"`
	LotteryRewardMin int `env:"LOTTERY_REWARD_MIN" envDefault:"1"`
	LotteryRewardMax int `env:"LOTTERY_REWARD_MAX" envDefault:"20"`

	// 发言奖励区间
	SpeechRewardMin int `env:"SPEECH_REWARD_MIN" envDefault:"1"`
	SpeechRewardMax int `env:"SPEECH_REWARD_MAX" envDefault:"5"`

	// 里程碑提示：数值达到特定值或每隔固定数量时提示
	MilestoneValues         []int `env:"MILESTONE_VALUES" envSeparator:"," envDefault:"50,100,200,500,1000"`
	MilestoneNotifyInterval int   `env:"MILESTONE_NOTIFY_INTERVAL" envDefault:"100"`

	// 指令关键词
	SwitchName     string `env:"SWITCH_NAME" envDefault:"阳光雨露"`
	MenuSuffix     string `env:"MENU_SUFFIX" envDefault:"菜单"`
	SignInCommand  string `env:"SIGN_IN_COMMAND" envDefault:"签到"`
	SelectCommand  string `env:"SELECT_COMMAND" envDefault:"选择"`
	QueryCommand   string `env:"QUERY_COMMAND" envDefault:"查询"`
	RankingCommand string `env:"RANKING_COMMAND" envDefault:"排行榜"`
	LotteryCommand string `env:"LOTTERY_COMMAND" envDefault:"抽"`

	// 每条回复末尾附带的公告
	Announcement string `env:"ANNOUNCEMENT_MESSAGE" envDefault:"☀️阳光雨露，伴你成长"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if cfg.Game.LotteryRewardMin > cfg.Game.LotteryRewardMax {
		return nil, fmt.Errorf("抽奖奖励区间配置错误: [%d, %d]", cfg.Game.LotteryRewardMin, cfg.Game.LotteryRewardMax)
	}
	if cfg.Game.SpeechRewardMin > cfg.Game.SpeechRewardMax {
		return nil, fmt.Errorf("发言奖励区间配置错误: [%d, %d]", cfg.Game.SpeechRewardMin, cfg.Game.SpeechRewardMax)
	}
	return cfg, nil
}

// DefaultGame returns the game rules with all defaults applied, ignoring the
// environment. Used by tests.
func DefaultGame() Game {
	g := Game{}
	if err := env.Parse(&g); err != nil {
		panic(err)
	}
	return g
}
