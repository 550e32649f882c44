package cfg

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

const DefaultPath = "./cfg/config.json"

type Config struct {
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBName     string `json:"db_name"`

	RedisAddr string `json:"redis_addr"`

	BotToken  string  `json:"bot_token"`
	BotLink   string  `json:"bot_link"`
	AdminIDs  []int64 `json:"admin_ids"`
	DevChatID int64   `json:"dev_chat_id"`

	AssetsDir   string `json:"assets_dir"`
	MetricsAddr string `json:"metrics_addr"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	config := &Config{}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	if config.RedisAddr == "" {
		config.RedisAddr = "127.0.0.1:6379"
	}
	if config.AssetsDir == "" {
		config.AssetsDir = "./assets/admin"
	}
	if config.MetricsAddr == "" {
		config.MetricsAddr = ":9091"
	}

	return config, nil
}

func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// UserTable is the users schema; the whole financial state of a user
// lives in one row so a put commits atomically.
const UserTable = `
	id VARCHAR(36) NOT NULL PRIMARY KEY,
	login_address VARCHAR(128) NOT NULL UNIQUE,
	balance DOUBLE NOT NULL DEFAULT 0,
	active_hash_rate BIGINT NOT NULL DEFAULT 0,
	joined_at BIGINT NOT NULL DEFAULT 0,
	last_accrued_at BIGINT NOT NULL DEFAULT 0,
	transactions MEDIUMTEXT NOT NULL,
	active_plans TEXT NOT NULL,
	referral_count INT NOT NULL DEFAULT 0,
	referred_by VARCHAR(36) NOT NULL DEFAULT '',
	version BIGINT NOT NULL DEFAULT 1`
