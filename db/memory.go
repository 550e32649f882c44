package db

import (
	"sort"
	"sync"

	"github.com/zecpool/cloud-miner/model"
)

// MemoryLedger keeps all user records in process memory with the same
// versioned-put contract as the MySQL store. It backs local runs without
// a configured database.
type MemoryLedger struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		users: make(map[string]*model.User),
	}
}

func (l *MemoryLedger) GetUser(id string) (*model.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	user, ok := l.users[id]
	if !ok {
		return nil, model.ErrUnknownUser
	}
	return user.Clone(), nil
}

func (l *MemoryLedger) FindUserByLoginAddress(address string) (*model.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, user := range l.users {
		if user.LoginAddress == address {
			return user.Clone(), nil
		}
	}
	return nil, model.ErrUnknownUser
}

func (l *MemoryLedger) PutUser(user *model.User) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	stored, ok := l.users[user.ID]
	if user.Version == 0 {
		if ok {
			return model.ErrConflictingWrite
		}
		user.Version = 1
		l.users[user.ID] = user.Clone()
		return nil
	}

	if !ok {
		return model.ErrUnknownUser
	}
	if stored.Version != user.Version {
		return model.ErrConflictingWrite
	}

	user.Version++
	l.users[user.ID] = user.Clone()
	return nil
}

func (l *MemoryLedger) ListUsers() ([]*model.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	users := make([]*model.User, 0, len(l.users))
	for _, user := range l.users {
		users = append(users, user.Clone())
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].JoinedAt < users[j].JoinedAt
	})

	return users, nil
}
