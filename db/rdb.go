package db

import (
	"strconv"

	"github.com/go-redis/redis"
)

// LevelStore keeps each chat's current dialog level in redis, so the
// bot survives restarts mid-dialog.
type LevelStore struct {
	rdb *redis.Client
}

func StartRedis(addr string) *LevelStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // no password set
		DB:       0,  // use default DB
	})
	return &LevelStore{rdb: rdb}
}

func (s *LevelStore) SetUser(userID int64, level string) {
	s.rdb.Set(userKey(userID), level, 0)
}

func (s *LevelStore) GetLevel(userID int64) string {
	level, err := s.rdb.Get(userKey(userID)).Result()
	if err != nil {
		return "main"
	}
	return level
}

// SetField keeps a named piece of dialog state (bound ledger id,
// selected plan, chosen currency) for the chat.
func (s *LevelStore) SetField(userID int64, field, value string) {
	s.rdb.Set(userKey(userID)+":"+field, value, 0)
}

func (s *LevelStore) GetField(userID int64, field string) string {
	value, err := s.rdb.Get(userKey(userID) + ":" + field).Result()
	if err != nil {
		return ""
	}
	return value
}

func userKey(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}
