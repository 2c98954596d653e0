package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/Easy-QFNU/W1ndysBot/internal/logger"
)

const redisSwitchKey = "sunrain:switch:%d"

// FeatureGate 群功能开关
type FeatureGate interface {
	IsGroupSwitchOn(ctx context.Context, chatID int64) bool
	Toggle(ctx context.Context, chatID int64) (bool, error)
}

// Switches 基于 Redis 的群功能开关，默认关闭
type Switches struct {
	rdb *redis.Client
}

// NewSwitches 创建群功能开关
func NewSwitches(rdb *redis.Client) *Switches {
	return &Switches{rdb: rdb}
}

// IsGroupSwitchOn 查询群开关状态，查询出错按关闭处理
func (s *Switches) IsGroupSwitchOn(ctx context.Context, chatID int64) bool {
	val, err := s.rdb.Get(ctx, fmt.Sprintf(redisSwitchKey, chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return false
	} else if err != nil {
		logger.Sugar.Errorf("[%s]查询群开关错误: %v", moduleName, err)
		return false
	}
	return val == "1"
}

// Toggle 切换群开关，返回切换后的状态
func (s *Switches) Toggle(ctx context.Context, chatID int64) (bool, error) {
	next := "1"
	if s.IsGroupSwitchOn(ctx, chatID) {
		next = "0"
	}
	if err := s.rdb.Set(ctx, fmt.Sprintf(redisSwitchKey, chatID), next, 0).Err(); err != nil {
		return false, err
	}
	return next == "1", nil
}
