package model

// Faction 用户阵营：0 阳光 / 1 雨露
type Faction int

const (
	FactionSun  Faction = 0
	FactionRain Faction = 1
)

// Name 返回阵营的中文名称
func (f Faction) Name() string {
	if f == FactionSun {
		return "阳光"
	}
	return "雨露"
}

// UserAccount 用户在某个群内的积分账户，(ChatID, UserID) 唯一
type UserAccount struct {
	ID               uint    `gorm:"primaryKey"`
	ChatID           int64   `json:"chat_id" gorm:"type:bigint(20);not null;uniqueIndex:idx_chat_user;index:idx_chat_faction"`
	UserID           int64   `json:"user_id" gorm:"type:bigint(20);not null;uniqueIndex:idx_chat_user"`
	Faction          Faction `json:"faction" gorm:"type:int(11);not null;index:idx_chat_faction"`
	Balance          int     `json:"balance" gorm:"type:int(11);not null"`
	ConsecutiveDays  int     `json:"consecutive_days" gorm:"type:int(11);not null"`
	TotalCheckinDays int     `json:"total_checkin_days" gorm:"type:int(11);not null"`
	LastCheckinDate  string  `json:"last_checkin_date" gorm:"type:varchar(32)"` // 格式 2006-01-02
}
