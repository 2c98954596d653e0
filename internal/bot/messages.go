package bot

import (
	"fmt"
	"strings"

	"github.com/Easy-QFNU/W1ndysBot/internal/config"
	"github.com/Easy-QFNU/W1ndysBot/internal/ledger"
	"github.com/Easy-QFNU/W1ndysBot/internal/model"
)

// noSelectionMessage 未选择类型时的引导
func noSelectionMessage(cfg config.Game) string {
	return "❌ 您还没有选择类型！\n" +
		"🌟 请先选择您的类型：\n" +
		fmt.Sprintf("✨ 阳光类型：发送「%s 阳光」\n", cfg.SelectCommand) +
		fmt.Sprintf("💧 雨露类型：发送「%s 雨露」\n", cfg.SelectCommand) +
		"📝 选择后即可开始签到和获得发言奖励！"
}

// selectHelpMessage 只输入了选择关键词时的帮助
func selectHelpMessage(cfg config.Game) string {
	return "🌟 请选择您的类型：\n" +
		fmt.Sprintf("✨ 阳光类型：发送「%s 阳光」\n", cfg.SelectCommand) +
		fmt.Sprintf("💧 雨露类型：发送「%s 雨露」\n", cfg.SelectCommand) +
		"📝 选择后即可开始签到获得奖励！"
}

// invalidSelectionMessage 选择了不识别的类型
func invalidSelectionMessage(cfg config.Game) string {
	return "❌ 选择无效！\n" +
		"🌟 请选择以下类型之一：\n" +
		fmt.Sprintf("✨ 阳光类型：发送「%s 阳光」\n", cfg.SelectCommand) +
		fmt.Sprintf("💧 雨露类型：发送「%s 雨露」\n", cfg.SelectCommand) +
		fmt.Sprintf("📝 提示：输入格式为「%s 类型名称」", cfg.SelectCommand)
}

// selectedMessage 选择成功或重复选择
func selectedMessage(account *model.UserAccount, created bool) string {
	typeName := account.Faction.Name()
	if created {
		return fmt.Sprintf("🎉 选择成功！您现在是%s类型\n", typeName) +
			"📝 每日签到、群内发言都可以获得" + typeName + "\n" +
			fmt.Sprintf("💎 当前拥有：%d个%s", account.Balance, typeName)
	}
	return fmt.Sprintf("✅ 您已经是%s类型啦！\n💎 当前拥有：%d个%s", typeName, account.Balance, typeName)
}

// factionTakenMessage 已有阵营时试图更换（先选先得）
func factionTakenMessage(account *model.UserAccount) string {
	typeName := account.Faction.Name()
	return fmt.Sprintf("❌ 您已经选择了%s类型，不能更换哦！\n", typeName) +
		fmt.Sprintf("🎲 请继续使用「抽%s」等%s类型的命令", typeName, typeName)
}

// checkinMessage 签到成功
func checkinMessage(res *ledger.CheckInResult) string {
	typeName := res.Account.Faction.Name()
	return "✅ 签到成功！\n" +
		fmt.Sprintf("🎁 获得：%d个%s\n", res.Reward, typeName) +
		fmt.Sprintf("📈 连续签到：%d天\n", res.Account.ConsecutiveDays) +
		fmt.Sprintf("📅 累计签到：%d天\n", res.Account.TotalCheckinDays) +
		fmt.Sprintf("💎 当前拥有：%d个%s", res.Account.Balance, typeName)
}

// alreadyCheckedInMessage 当天重复签到
func alreadyCheckedInMessage() string {
	return "📅 今天已经签到过了，明天再来吧！"
}

// queryMessage 查询当前状态
func queryMessage(account *model.UserAccount) string {
	typeName := account.Faction.Name()
	msg := fmt.Sprintf("📊 您的%s状态\n", typeName) +
		fmt.Sprintf("💎 当前拥有：%d个%s\n", account.Balance, typeName) +
		fmt.Sprintf("📈 连续签到：%d天\n", account.ConsecutiveDays) +
		fmt.Sprintf("📅 累计签到：%d天\n", account.TotalCheckinDays)

	if account.LastCheckinDate != "" {
		msg += fmt.Sprintf("⏰ 上次签到：%s\n", account.LastCheckinDate)
	}

	switch {
	case account.Balance >= 1000:
		msg += "🏆 您已经是超级大佬了！"
	case account.Balance >= 500:
		msg += "🌟 您的努力真是令人敬佩！"
	case account.Balance >= 200:
		msg += "✨ 继续加油，您很棒！"
	case account.Balance >= 100:
		msg += "🎯 已经突破100了，真不错！"
	case account.Balance >= 50:
		msg += "💪 半百达成，继续努力！"
	default:
		msg += "📝 多发言多签到，数值会越来越多哦！"
	}
	return msg
}

// factionMismatchMessage 抽奖类型与用户类型不匹配
func factionMismatchMessage(userFaction model.Faction) string {
	typeName := userFaction.Name()
	return "❌ 类型不匹配！\n" +
		fmt.Sprintf("📝 您的类型是：%s\n", typeName) +
		fmt.Sprintf("🎲 只能使用「抽%s」命令\n", typeName) +
		"💡 提示：每个用户只能抽取自己类型的奖励"
}

// insufficientMessage 余额不足以抽奖
func insufficientMessage(faction model.Faction, current, cost int) string {
	typeName := faction.Name()
	return fmt.Sprintf("❌ %s不足！\n", typeName) +
		fmt.Sprintf("💎 当前拥有：%d个%s\n", current, typeName) +
		fmt.Sprintf("🎲 抽奖需要：%d个%s\n", cost, typeName) +
		fmt.Sprintf("📝 请通过签到和发言获得更多%s", typeName)
}

// lotteryMessage 抽奖结果
func lotteryMessage(faction model.Faction, cost, reward, balance int) string {
	typeName := faction.Name()
	msg := fmt.Sprintf("🎲 抽%s结果\n", typeName) +
		fmt.Sprintf("💰 花费：%d个%s\n", cost, typeName) +
		fmt.Sprintf("🎁 获得：%d个%s\n", reward, typeName) +
		fmt.Sprintf("📊 净收益：%+d个%s\n", reward-cost, typeName) +
		fmt.Sprintf("💎 当前拥有：%d个%s", balance, typeName)

	switch {
	case reward >= 15:
		msg += "\n🎉 大奖！运气爆棚！"
	case reward >= 10:
		msg += "\n✨ 不错的运气！"
	case reward >= 5:
		msg += "\n😊 运气还行！"
	default:
		msg += "\n😅 下次会更好的！"
	}
	return msg
}

// speechRewardMessage 发言奖励里程碑提示
func speechRewardMessage(faction model.Faction, reward, balance int, milestones []int) string {
	typeName := faction.Name()
	msg := "🎉 发言奖励！\n" +
		fmt.Sprintf("💎 获得：%d个%s\n", reward, typeName) +
		fmt.Sprintf("📊 当前拥有：%d个%s", balance, typeName)

	switch {
	case balance >= 500:
		msg += fmt.Sprintf("\n🏆 恭喜！您已拥有%d个%s，真是太厉害了！", balance, typeName)
	case balance >= 200:
		msg += fmt.Sprintf("\n🌟 了不起！您的%s已经达到%d个！", typeName, balance)
	case balance >= 100:
		msg += fmt.Sprintf("\n✨ 太棒了！您的%s突破了100个！", typeName)
	case containsInt(milestones, balance):
		msg += fmt.Sprintf("\n🎯 里程碑达成：%d个%s！", balance, typeName)
	}
	return msg
}

// appendRankingSection 向排行榜消息追加一个榜单
func appendRankingSection(b *strings.Builder, title string, typeName string, entries []model.UserAccount) {
	if len(entries) == 0 {
		fmt.Fprintf(b, "%s%s榜：暂无数据\n", title, typeName)
		return
	}
	fmt.Fprintf(b, "%s%s前%d名：\n", title, typeName, len(entries))
	for i, entry := range entries {
		fmt.Fprintf(b, "%d. %d - %d个%s\n", i+1, entry.UserID, entry.Balance, typeName)
	}
}

// menuMessage 模块菜单
func menuMessage(cfg config.Game) string {
	return fmt.Sprintf("📖 %s%s\n", cfg.SwitchName, cfg.MenuSuffix) +
		fmt.Sprintf("「%s 阳光/雨露」选择您的类型\n", cfg.SelectCommand) +
		fmt.Sprintf("「%s」每日签到获得%d个数值\n", cfg.SignInCommand, cfg.CheckinReward) +
		fmt.Sprintf("「%s」查看当前数值\n", cfg.QueryCommand) +
		fmt.Sprintf("「%s 阳光/雨露」查看排行\n", cfg.RankingCommand) +
		fmt.Sprintf("「%s阳光」「%s雨露」消耗%d个数值抽奖\n", cfg.LotteryCommand, cfg.LotteryCommand, cfg.LotteryCost) +
		"📝 群内发言也可以随机获得数值哦"
}

func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
