package ledger

import (
	"fmt"
	"sync"
)

// accountLocks 存储每个 (群, 用户) 账户对应的互斥锁
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

// get 根据账户键获取对应的互斥锁，如果不存在则创建一个新的锁
func (l *accountLocks) get(chatID, userID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := fmt.Sprintf("%d:%d", chatID, userID)
	if _, ok := l.locks[key]; !ok {
		l.locks[key] = &sync.Mutex{}
	}

	return l.locks[key]
}
