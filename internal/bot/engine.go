package bot

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/Easy-QFNU/W1ndysBot/internal/config"
	"github.com/Easy-QFNU/W1ndysBot/internal/ledger"
	"github.com/Easy-QFNU/W1ndysBot/internal/logger"
	"github.com/Easy-QFNU/W1ndysBot/internal/model"
)

const moduleName = "SunAndRain"

const (
	replyDeleteShort = 10 * time.Second // 事务类回复
	replyDeleteLong  = 30 * time.Second // 菜单、排行榜回复
)

// Outcome 事件处理结果类别
type Outcome int

const (
	OutcomeNoAction Outcome = iota // 静默，无任何变更
	OutcomeRejected                // 拒绝并回复原因，无变更
	OutcomeApplied                 // 已执行
)

// Result 单条群消息的处理结果
type Result struct {
	Outcome Outcome
	Kind    CommandKind
	Reply   string // 回复正文，不含公告
}

// Engine 无状态指令引擎：分类消息、校验前置条件、调用账本变更并回复
type Engine struct {
	cfg        config.Game
	store      *ledger.Store
	gate       FeatureGate
	sender     Sender
	admins     map[int64]struct{}
	classifier classifier

	// draw 在闭区间内取随机数，测试时可替换
	draw func(min, max int) int
}

// NewEngine 创建指令引擎
func NewEngine(cfg config.Game, store *ledger.Store, gate FeatureGate, sender Sender, adminIDs []int64) *Engine {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Engine{
		cfg:        cfg,
		store:      store,
		gate:       gate,
		sender:     sender,
		admins:     admins,
		classifier: classifier{cfg: cfg},
		draw: func(min, max int) int {
			return min + rand.Intn(max-min+1)
		},
	}
}

// isSystemAdmin 判断是否系统管理员
func (e *Engine) isSystemAdmin(userID int64) bool {
	_, ok := e.admins[userID]
	return ok
}

// HandleGroupMessage 处理一条群消息。开关和菜单指令不受群开关限制，
// 其余指令在群开关关闭时静默跳过。
func (e *Engine) HandleGroupMessage(ctx context.Context, msg *GroupMessage) Result {
	cmd := e.classifier.classify(msg.Text)

	switch cmd.Kind {
	case CmdSwitch:
		return e.handleSwitch(ctx, msg)
	case CmdMenu:
		return e.handleMenu(msg)
	}

	if !e.gate.IsGroupSwitchOn(ctx, msg.ChatID) {
		return Result{Outcome: OutcomeNoAction, Kind: cmd.Kind}
	}

	switch cmd.Kind {
	case CmdCheckin:
		return e.handleCheckin(msg)
	case CmdSelect:
		return e.handleSelect(msg)
	case CmdQuery:
		return e.handleQuery(msg)
	case CmdRanking:
		return e.handleRanking(msg, cmd)
	case CmdLottery:
		return e.handleLottery(msg, cmd)
	case CmdSpeech:
		return e.handleSpeech(msg)
	default:
		return Result{Outcome: OutcomeNoAction, Kind: CmdNone}
	}
}

// reply 发送带公告的回复
func (e *Engine) reply(msg *GroupMessage, text string, deleteAfter time.Duration) {
	e.sender.SendGroupMessage(msg.ChatID, msg.MessageID, text+"\n"+e.cfg.Announcement, deleteAfter)
}

// handleSwitch 处理群聊开关命令，仅系统管理员可用
func (e *Engine) handleSwitch(ctx context.Context, msg *GroupMessage) Result {
	if !e.isSystemAdmin(msg.UserID) {
		logger.Sugar.Errorf("[%s]%d无权限切换群聊开关", moduleName, msg.UserID)
		return Result{Outcome: OutcomeNoAction, Kind: CmdSwitch}
	}

	on, err := e.gate.Toggle(ctx, msg.ChatID)
	if err != nil {
		logger.Sugar.Errorf("[%s]切换群聊开关失败: %v", moduleName, err)
		return Result{Outcome: OutcomeRejected, Kind: CmdSwitch}
	}

	state := "关闭"
	if on {
		state = "开启"
	}
	text := "✅ " + e.cfg.SwitchName + "功能已" + state
	e.reply(msg, text, replyDeleteShort)
	return Result{Outcome: OutcomeApplied, Kind: CmdSwitch, Reply: text}
}

// handleMenu 处理菜单命令（无视开关状态）
func (e *Engine) handleMenu(msg *GroupMessage) Result {
	text := menuMessage(e.cfg)
	e.reply(msg, text, replyDeleteLong)
	return Result{Outcome: OutcomeApplied, Kind: CmdMenu, Reply: text}
}

// handleCheckin 处理签到命令
func (e *Engine) handleCheckin(msg *GroupMessage) Result {
	res, err := e.store.CheckIn(msg.ChatID, msg.UserID)
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound):
		text := noSelectionMessage(e.cfg)
		e.reply(msg, text, replyDeleteShort)
		return Result{Outcome: OutcomeRejected, Kind: CmdCheckin, Reply: text}
	case errors.Is(err, ledger.ErrAlreadyCheckedIn):
		text := alreadyCheckedInMessage()
		e.reply(msg, text, replyDeleteShort)
		return Result{Outcome: OutcomeRejected, Kind: CmdCheckin, Reply: text}
	case err != nil:
		logger.Sugar.Errorf("[%s]处理签到命令失败: %v", moduleName, err)
		text := "❌ 签到失败，请稍后再试"
		e.reply(msg, text, replyDeleteShort)
		return Result{Outcome: OutcomeRejected, Kind: CmdCheckin, Reply: text}
	}

	text := checkinMessage(res)
	e.reply(msg, text, replyDeleteShort)
	return Result{Outcome: OutcomeApplied, Kind: CmdCheckin, Reply: text}
}

// handleSelect 处理选择命令
func (e *Engine) handleSelect(msg *GroupMessage) Result {
	parts := strings.Fields(strings.TrimSpace(msg.Text))
	if len(parts) < 2 {
		text := selectHelpMessage(e.cfg)
		e.reply(msg, text, replyDeleteShort)
		return Result{Outcome: OutcomeRejected, Kind: CmdSelect, Reply: text}
	}

	faction, ok := parseFactionAlias(parts[1])
	if !ok {
		text := invalidSelectionMessage(e.cfg)
		e.reply(msg, text, replyDeleteShort)
		return Result{Outcome: OutcomeRejected, Kind: CmdSelect, Reply: text}
	}

	account, created, err := e.store.SelectFaction(msg.ChatID, msg.UserID, faction)
	switch {
	case errors.Is(err, ledger.ErrFactionTaken):
		text := factionTakenMessage(account)
		e.reply(msg, text, replyDeleteShort)
		return Result{Outcome: OutcomeRejected, Kind: CmdSelect, Reply: text}
	case err != nil:
		logger.Sugar.Errorf("[%s]处理选择命令失败: %v", moduleName, err)
		text := "❌ 选择失败，请稍后再试"
		e.reply(msg, text, replyDeleteShort)
		return Result{Outcome: OutcomeRejected, Kind: CmdSelect, Reply: text}
	}

	text := selectedMessage(account, created)
	e.reply(msg, text, replyDeleteShort)
	return Result{Outcome: OutcomeApplied, Kind: CmdSelect, Reply: text}
}

// handleQuery 处理查询命令，查看用户当前拥有的数值
func (e *Engine) handleQuery(msg *GroupMessage) Result {
	account, err := e.store.GetAccount(msg.ChatID, msg.UserID)
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound):
		text := noSelectionMessage(e.cfg)
		e.reply(msg, text, replyDeleteShort)
		return Result{Outcome: OutcomeRejected, Kind: CmdQuery, Reply: text}
	case err != nil:
		logger.Sugar.Errorf("[%s]处理查询命令失败: %v", moduleName, err)
		text := "❌ 查询失败，请稍后再试"
		e.reply(msg, text, replyDeleteShort)
		return Result{Outcome: OutcomeRejected, Kind: CmdQuery, Reply: text}
	}

	text := queryMessage(account)
	e.reply(msg, text, replyDeleteShort)
	return Result{Outcome: OutcomeApplied, Kind: CmdQuery, Reply: text}
}

// handleRanking 处理排行榜命令。指定阵营时显示全服和本群前十，
// 未指定时显示两个阵营的全服和本群前五。
func (e *Engine) handleRanking(msg *GroupMessage, cmd Command) Result {
	var b strings.Builder

	if cmd.HasFaction {
		typeName := cmd.Faction.Name()
		b.WriteString("📊 " + typeName + "排行榜\n\n")

		global, err := e.store.TopGlobal(cmd.Faction, 10)
		if err != nil {
			return e.rankingFailure(msg, err)
		}
		appendRankingSection(&b, "🌍 全服", typeName, global)
		b.WriteString("\n")

		group, err := e.store.TopGroup(msg.ChatID, cmd.Faction, 10)
		if err != nil {
			return e.rankingFailure(msg, err)
		}
		appendRankingSection(&b, "👥 本群", typeName, group)
	} else {
		b.WriteString("📊 全部排行榜\n\n")
		for _, faction := range []model.Faction{model.FactionSun, model.FactionRain} {
			typeName := faction.Name()

			global, err := e.store.TopGlobal(faction, 5)
			if err != nil {
				return e.rankingFailure(msg, err)
			}
			appendRankingSection(&b, "🌍 全服", typeName, global)
			b.WriteString("\n")

			group, err := e.store.TopGroup(msg.ChatID, faction, 5)
			if err != nil {
				return e.rankingFailure(msg, err)
			}
			appendRankingSection(&b, "👥 本群", typeName, group)
			b.WriteString("\n")
		}
	}

	b.WriteString("💡 提示：发送「" + e.cfg.RankingCommand + " 阳光」或「" + e.cfg.RankingCommand + " 雨露」查看指定类型详细排行")

	text := b.String()
	e.reply(msg, text, replyDeleteLong)
	return Result{Outcome: OutcomeApplied, Kind: CmdRanking, Reply: text}
}

func (e *Engine) rankingFailure(msg *GroupMessage, err error) Result {
	logger.Sugar.Errorf("[%s]处理排行榜命令失败: %v", moduleName, err)
	text := "❌ 排行榜查询失败，请稍后再试"
	e.reply(msg, text, replyDeleteShort)
	return Result{Outcome: OutcomeRejected, Kind: CmdRanking, Reply: text}
}

// handleLottery 处理抽奖命令。先扣除花费，再给予奖励；
// 给予奖励失败时把花费退回去。
func (e *Engine) handleLottery(msg *GroupMessage, cmd Command) Result {
	account, err := e.store.GetAccount(msg.ChatID, msg.UserID)
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound):
		text := noSelectionMessage(e.cfg)
		e.reply(msg, text, replyDeleteShort)
		return Result{Outcome: OutcomeRejected, Kind: CmdLottery, Reply: text}
	case err != nil:
		logger.Sugar.Errorf("[%s]处理抽奖命令失败: %v", moduleName, err)
		text := "❌ 抽奖失败，请稍后再试"
		e.reply(msg, text, replyDeleteShort)
		return Result{Outcome: OutcomeRejected, Kind: CmdLottery, Reply: text}
	}

	if account.Faction != cmd.Faction {
		text := factionMismatchMessage(account.Faction)
		e.reply(msg, text, replyDeleteShort)
		return Result{Outcome: OutcomeRejected, Kind: CmdLottery, Reply: text}
	}

	if account.Balance < e.cfg.LotteryCost {
		text := insufficientMessage(account.Faction, account.Balance, e.cfg.LotteryCost)
		e.reply(msg, text, replyDeleteShort)
		return Result{Outcome: OutcomeRejected, Kind: CmdLottery, Reply: text}
	}

	// 扣除花费。并发抽奖可能在这里才发现余额不足
	_, err = e.store.AdjustBalance(msg.ChatID, msg.UserID, cmd.Faction, -e.cfg.LotteryCost)
	if errors.Is(err, ledger.ErrInsufficientBalance) {
		text := insufficientMessage(account.Faction, account.Balance, e.cfg.LotteryCost)
		e.reply(msg, text, replyDeleteShort)
		return Result{Outcome: OutcomeRejected, Kind: CmdLottery, Reply: text}
	} else if err != nil {
		logger.Sugar.Errorf("[%s]扣除抽奖花费失败: %v", moduleName, err)
		text := "❌ 抽奖失败，请稍后再试"
		e.reply(msg, text, replyDeleteShort)
		return Result{Outcome: OutcomeRejected, Kind: CmdLottery, Reply: text}
	}

	reward := e.draw(e.cfg.LotteryRewardMin, e.cfg.LotteryRewardMax)

	credited, err := e.store.AdjustBalance(msg.ChatID, msg.UserID, cmd.Faction, reward)
	if err != nil {
		// 给予奖励失败，把花费退回去
		if _, refundErr := e.store.AdjustBalance(msg.ChatID, msg.UserID, cmd.Faction, e.cfg.LotteryCost); refundErr != nil {
			logger.Sugar.Errorf("[%s]返还抽奖花费失败, user_id:%d, chat_id:%d, cost:%d, err:%v",
				moduleName, msg.UserID, msg.ChatID, e.cfg.LotteryCost, refundErr)
		}
		logger.Sugar.Errorf("[%s]发放抽奖奖励失败: %v", moduleName, err)
		text := "❌ 抽奖失败，请稍后再试"
		e.reply(msg, text, replyDeleteShort)
		return Result{Outcome: OutcomeRejected, Kind: CmdLottery, Reply: text}
	}

	text := lotteryMessage(cmd.Faction, e.cfg.LotteryCost, reward, credited.Balance)
	e.reply(msg, text, replyDeleteShort)
	return Result{Outcome: OutcomeApplied, Kind: CmdLottery, Reply: text}
}

// handleSpeech 处理发言奖励。未选择类型的用户不给予奖励；
// 只在获得最高奖励或数值达到里程碑时提示，避免刷屏。
func (e *Engine) handleSpeech(msg *GroupMessage) Result {
	account, err := e.store.GetAccount(msg.ChatID, msg.UserID)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return Result{Outcome: OutcomeNoAction, Kind: CmdSpeech}
	} else if err != nil {
		logger.Sugar.Errorf("[%s]处理发言奖励失败: %v", moduleName, err)
		return Result{Outcome: OutcomeNoAction, Kind: CmdSpeech}
	}

	reward := e.draw(e.cfg.SpeechRewardMin, e.cfg.SpeechRewardMax)

	updated, err := e.store.AdjustBalance(msg.ChatID, msg.UserID, account.Faction, reward)
	if err != nil {
		logger.Sugar.Errorf("[%s]发放发言奖励失败: %v", moduleName, err)
		return Result{Outcome: OutcomeNoAction, Kind: CmdSpeech}
	}

	logger.Sugar.Infof("[%s]发言奖励, user_id:%d, chat_id:%d, faction:%s, reward:%d, new_balance:%d",
		moduleName, msg.UserID, msg.ChatID, account.Faction.Name(), reward, updated.Balance)

	shouldNotify := reward == e.cfg.SpeechRewardMax ||
		updated.Balance%e.cfg.MilestoneNotifyInterval == 0 ||
		containsInt(e.cfg.MilestoneValues, updated.Balance)
	if !shouldNotify {
		return Result{Outcome: OutcomeApplied, Kind: CmdSpeech}
	}

	text := speechRewardMessage(account.Faction, reward, updated.Balance, e.cfg.MilestoneValues)
	e.reply(msg, text, replyDeleteShort)
	return Result{Outcome: OutcomeApplied, Kind: CmdSpeech, Reply: text}
}
