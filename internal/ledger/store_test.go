package ledger

import (
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Easy-QFNU/W1ndysBot/internal/config"
	"github.com/Easy-QFNU/W1ndysBot/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := NewStore(db, config.DefaultGame())
	require.NoError(t, store.AutoMigrate())
	return store
}

func TestGetAccountNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetAccount(1, 100)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSelectFaction(t *testing.T) {
	store := newTestStore(t)

	account, created, err := store.SelectFaction(1, 100, model.FactionSun)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.FactionSun, account.Faction)
	assert.Equal(t, 0, account.Balance)

	// 重复选择同一阵营幂等
	account, created, err = store.SelectFaction(1, 100, model.FactionSun)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, model.FactionSun, account.Faction)

	// 先选先得，不允许更换
	account, _, err = store.SelectFaction(1, 100, model.FactionRain)
	assert.ErrorIs(t, err, ErrFactionTaken)
	assert.Equal(t, model.FactionSun, account.Faction)

	// 同一用户在不同群是独立账户
	_, created, err = store.SelectFaction(2, 100, model.FactionRain)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestCheckInRequiresAccount(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CheckIn(1, 100)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestCheckInSameDayRejected(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.SelectFaction(1, 100, model.FactionSun)
	require.NoError(t, err)

	res, err := store.CheckIn(1, 100)
	require.NoError(t, err)
	assert.Equal(t, store.cfg.CheckinReward, res.Reward)
	assert.Equal(t, 1, res.Account.ConsecutiveDays)
	assert.Equal(t, 1, res.Account.TotalCheckinDays)
	assert.Equal(t, store.cfg.CheckinReward, res.Account.Balance)

	_, err = store.CheckIn(1, 100)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	// 拒绝的签到不计数
	account, err := store.GetAccount(1, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, account.ConsecutiveDays)
	assert.Equal(t, 1, account.TotalCheckinDays)
	assert.Equal(t, store.cfg.CheckinReward, account.Balance)
}

func TestCheckInStreakContinues(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.SelectFaction(1, 100, model.FactionSun)
	require.NoError(t, err)

	yesterday := time.Now().AddDate(0, 0, -1).Format(dateLayout)
	require.NoError(t, store.db.Model(&model.UserAccount{}).
		Where("chat_id = ? AND user_id = ?", int64(1), int64(100)).
		Updates(map[string]interface{}{
			"last_checkin_date":  yesterday,
			"consecutive_days":   3,
			"total_checkin_days": 5,
		}).Error)

	res, err := store.CheckIn(1, 100)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Account.ConsecutiveDays)
	assert.Equal(t, 6, res.Account.TotalCheckinDays)
}

func TestCheckInStreakResetsAfterGap(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.SelectFaction(1, 100, model.FactionSun)
	require.NoError(t, err)

	threeDaysAgo := time.Now().AddDate(0, 0, -3).Format(dateLayout)
	require.NoError(t, store.db.Model(&model.UserAccount{}).
		Where("chat_id = ? AND user_id = ?", int64(1), int64(100)).
		Updates(map[string]interface{}{
			"last_checkin_date":  threeDaysAgo,
			"consecutive_days":   3,
			"total_checkin_days": 5,
		}).Error)

	res, err := store.CheckIn(1, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Account.ConsecutiveDays)
	assert.Equal(t, 6, res.Account.TotalCheckinDays)
}

func TestAdjustBalance(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.SelectFaction(1, 100, model.FactionSun)
	require.NoError(t, err)

	account, err := store.AdjustBalance(1, 100, model.FactionSun, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, account.Balance)

	account, err = store.AdjustBalance(1, 100, model.FactionSun, -10)
	require.NoError(t, err)
	assert.Equal(t, 20, account.Balance)

	// 会导致负数的扣除被整体拒绝
	_, err = store.AdjustBalance(1, 100, model.FactionSun, -21)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	account, err = store.GetAccount(1, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, account.Balance)

	// 阵营不匹配视作账户不存在
	_, err = store.AdjustBalance(1, 100, model.FactionRain, 5)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAdjustBalanceConcurrentCredits(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.SelectFaction(1, 100, model.FactionSun)
	require.NoError(t, err)

	const workers = 40
	const delta = 5

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := store.AdjustBalance(1, 100, model.FactionSun, delta)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	account, err := store.GetAccount(1, 100)
	require.NoError(t, err)
	assert.Equal(t, workers*delta, account.Balance)
}

func TestAdjustBalanceConcurrentDebits(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.SelectFaction(1, 100, model.FactionSun)
	require.NoError(t, err)
	_, err = store.AdjustBalance(1, 100, model.FactionSun, 10)
	require.NoError(t, err)

	// 余额10，5个并发扣4：只有两个能成功，其余被拒绝
	var wg sync.WaitGroup
	var mu sync.Mutex
	rejected := 0

	wg.Add(5)
	for i := 0; i < 5; i++ {
		go func() {
			defer wg.Done()
			if _, err := store.AdjustBalance(1, 100, model.FactionSun, -4); err != nil {
				assert.ErrorIs(t, err, ErrInsufficientBalance)
				mu.Lock()
				rejected++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	account, err := store.GetAccount(1, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, account.Balance)
	assert.Equal(t, 3, rejected)
}

func TestTopGroupOrdering(t *testing.T) {
	store := newTestStore(t)

	balances := []int{50, 10, 90, 10}
	for i, balance := range balances {
		userID := int64(100 + i)
		_, _, err := store.SelectFaction(1, userID, model.FactionSun)
		require.NoError(t, err)
		if balance > 0 {
			_, err = store.AdjustBalance(1, userID, model.FactionSun, balance)
			require.NoError(t, err)
		}
	}

	top, err := store.TopGroup(1, model.FactionSun, 10)
	require.NoError(t, err)
	require.Len(t, top, 4)

	assert.Equal(t, []int{90, 50, 10, 10}, []int{top[0].Balance, top[1].Balance, top[2].Balance, top[3].Balance})
	// 同分按创建先后排序，结果可复现
	assert.Equal(t, int64(101), top[2].UserID)
	assert.Equal(t, int64(103), top[3].UserID)
}

func TestTopGlobalScopesFactionAcrossGroups(t *testing.T) {
	store := newTestStore(t)

	seed := []struct {
		chatID  int64
		userID  int64
		faction model.Faction
		balance int
	}{
		{1, 100, model.FactionSun, 40},
		{2, 200, model.FactionSun, 70},
		{1, 101, model.FactionRain, 90},
	}
	for _, s := range seed {
		_, _, err := store.SelectFaction(s.chatID, s.userID, s.faction)
		require.NoError(t, err)
		_, err = store.AdjustBalance(s.chatID, s.userID, s.faction, s.balance)
		require.NoError(t, err)
	}

	top, err := store.TopGlobal(model.FactionSun, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, int64(200), top[0].UserID)
	assert.Equal(t, int64(100), top[1].UserID)

	top, err = store.TopGlobal(model.FactionSun, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 70, top[0].Balance)
}
