package ledger

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Easy-QFNU/W1ndysBot/internal/config"
	"github.com/Easy-QFNU/W1ndysBot/internal/model"
)

var (
	// ErrAccountNotFound 用户尚未选择阵营，账户不存在
	ErrAccountNotFound = errors.New("账户不存在")
	// ErrAlreadyCheckedIn 今天已经签到过
	ErrAlreadyCheckedIn = errors.New("今天已签到")
	// ErrInsufficientBalance 余额不足以扣除
	ErrInsufficientBalance = errors.New("余额不足")
	// ErrFactionTaken 已经选择过阵营，不允许更换（先选先得）
	ErrFactionTaken = errors.New("阵营已选择")
)

const dateLayout = "2006-01-02"

// Store 积分账本。所有对同一账户的读改写都由账户级互斥锁串行化，
// 不同账户之间互不阻塞。
type Store struct {
	db    *gorm.DB
	cfg   config.Game
	locks *accountLocks
}

// NewStore 创建积分账本
func NewStore(db *gorm.DB, cfg config.Game) *Store {
	return &Store{
		db:    db,
		cfg:   cfg,
		locks: newAccountLocks(),
	}
}

// AutoMigrate 自动迁移表结构
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&model.UserAccount{})
}

// GetAccount 查询账户，不存在返回 ErrAccountNotFound
func (s *Store) GetAccount(chatID, userID int64) (*model.UserAccount, error) {
	var account model.UserAccount
	result := s.db.Where("chat_id = ? AND user_id = ?", chatID, userID).First(&account)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	} else if result.Error != nil {
		return nil, result.Error
	}
	return &account, nil
}

// SelectFaction 选择阵营。首次选择即创建账户；重复选择同一阵营幂等返回；
// 试图更换阵营返回 ErrFactionTaken。返回值第二项表示是否新建了账户。
func (s *Store) SelectFaction(chatID, userID int64, faction model.Faction) (*model.UserAccount, bool, error) {
	lock := s.locks.get(chatID, userID)
	lock.Lock()
	defer lock.Unlock()

	var account model.UserAccount
	result := s.db.Where("chat_id = ? AND user_id = ?", chatID, userID).First(&account)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		account = model.UserAccount{
			ChatID:  chatID,
			UserID:  userID,
			Faction: faction,
			Balance: 0,
		}
		if err := s.db.Create(&account).Error; err != nil {
			return nil, false, err
		}
		return &account, true, nil
	} else if result.Error != nil {
		return nil, false, result.Error
	}

	if account.Faction == faction {
		return &account, false, nil
	}
	return &account, false, ErrFactionTaken
}

// CheckInResult 签到结果
type CheckInResult struct {
	Account *model.UserAccount
	Reward  int
}

// CheckIn 每日签到。同一天重复签到返回 ErrAlreadyCheckedIn；
// 上次签到是昨天则连续天数加一，否则重置为 1。
func (s *Store) CheckIn(chatID, userID int64) (*CheckInResult, error) {
	lock := s.locks.get(chatID, userID)
	lock.Lock()
	defer lock.Unlock()

	var account model.UserAccount
	result := s.db.Where("chat_id = ? AND user_id = ?", chatID, userID).First(&account)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	} else if result.Error != nil {
		return nil, result.Error
	}

	now := time.Now()
	today := now.Format(dateLayout)
	if account.LastCheckinDate == today {
		return nil, ErrAlreadyCheckedIn
	}

	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	if account.LastCheckinDate == yesterday {
		account.ConsecutiveDays++
	} else {
		account.ConsecutiveDays = 1
	}
	account.TotalCheckinDays++
	account.Balance += s.cfg.CheckinReward
	account.LastCheckinDate = today

	if err := s.db.Save(&account).Error; err != nil {
		return nil, err
	}

	return &CheckInResult{Account: &account, Reward: s.cfg.CheckinReward}, nil
}

// AdjustBalance 唯一的余额变更原语，所有加减积分都经过这里。
// 同一账户的并发调用被账户锁串行化；余额会变成负数时返回
// ErrInsufficientBalance 且不产生任何变更。
func (s *Store) AdjustBalance(chatID, userID int64, faction model.Faction, delta int) (*model.UserAccount, error) {
	lock := s.locks.get(chatID, userID)
	lock.Lock()
	defer lock.Unlock()

	var account model.UserAccount
	result := s.db.Where("chat_id = ? AND user_id = ? AND faction = ?", chatID, userID, faction).First(&account)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	} else if result.Error != nil {
		return nil, result.Error
	}

	if account.Balance+delta < 0 {
		return nil, ErrInsufficientBalance
	}
	account.Balance += delta

	if err := s.db.Save(&account).Error; err != nil {
		return nil, err
	}

	return &account, nil
}

// TopGlobal 全服某阵营余额前 limit 名，余额相同按创建先后排序
func (s *Store) TopGlobal(faction model.Faction, limit int) ([]model.UserAccount, error) {
	var accounts []model.UserAccount
	result := s.db.Where("faction = ?", faction).
		Order("balance DESC, id ASC").
		Limit(limit).
		Find(&accounts)
	if result.Error != nil {
		return nil, result.Error
	}
	return accounts, nil
}

// TopGroup 本群某阵营余额前 limit 名，余额相同按创建先后排序
func (s *Store) TopGroup(chatID int64, faction model.Faction, limit int) ([]model.UserAccount, error) {
	var accounts []model.UserAccount
	result := s.db.Where("chat_id = ? AND faction = ?", chatID, faction).
		Order("balance DESC, id ASC").
		Limit(limit).
		Find(&accounts)
	if result.Error != nil {
		return nil, result.Error
	}
	return accounts, nil
}
