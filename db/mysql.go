package db

import (
	"database/sql"
	"encoding/json"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"github.com/zecpool/cloud-miner/cfg"
	"github.com/zecpool/cloud-miner/model"
)

const dbDriver = "mysql"

// UploadDataBase creates the database and users table if missing and
// returns an open connection.
func UploadDataBase(config *cfg.Config) (*sql.DB, error) {
	dataBase, err := sql.Open(dbDriver, config.DBUser+":"+config.DBPassword+"@/")
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	if _, err = dataBase.Exec("CREATE DATABASE IF NOT EXISTS " + config.DBName + ";"); err != nil {
		return nil, errors.Wrap(err, "create database")
	}
	if err = dataBase.Close(); err != nil {
		return nil, errors.Wrap(err, "close bootstrap connection")
	}

	dataBase, err = sql.Open(dbDriver, config.DBUser+":"+config.DBPassword+"@/"+config.DBName)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	if _, err = dataBase.Exec("CREATE TABLE IF NOT EXISTS users (" + cfg.UserTable + ");"); err != nil {
		return nil, errors.Wrap(err, "create users table")
	}

	if err = dataBase.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping database")
	}

	return dataBase, nil
}

// UserStore is the MySQL ledger. Each user is one row; a version column
// rejects stale writes.
type UserStore struct {
	dataBase *sql.DB
}

func NewUserStore(dataBase *sql.DB) *UserStore {
	return &UserStore{dataBase: dataBase}
}

const userColumns = `id, login_address, balance, active_hash_rate, joined_at,
	last_accrued_at, transactions, active_plans, referral_count, referred_by, version`

func (s *UserStore) GetUser(id string) (*model.User, error) {
	rows, err := s.dataBase.Query(`
SELECT `+userColumns+` FROM users
	WHERE id = ?;`,
		id)
	if err != nil {
		return nil, errors.Wrap(err, "get user")
	}

	users, err := readUsers(rows)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, model.ErrUnknownUser
	}
	return users[0], nil
}

func (s *UserStore) FindUserByLoginAddress(address string) (*model.User, error) {
	rows, err := s.dataBase.Query(`
SELECT `+userColumns+` FROM users
	WHERE login_address = ?;`,
		address)
	if err != nil {
		return nil, errors.Wrap(err, "find user by address")
	}

	users, err := readUsers(rows)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, model.ErrUnknownUser
	}
	return users[0], nil
}

func (s *UserStore) ListUsers() ([]*model.User, error) {
	rows, err := s.dataBase.Query(`SELECT ` + userColumns + ` FROM users ORDER BY joined_at;`)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}

	return readUsers(rows)
}

func (s *UserStore) PutUser(user *model.User) error {
	transactions, activePlans, err := encodeEmbedded(user)
	if err != nil {
		return err
	}

	if user.Version == 0 {
		_, err = s.dataBase.Exec(`
INSERT INTO users
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1);`,
			user.ID,
			user.LoginAddress,
			user.Balance,
			user.ActiveHashRate,
			user.JoinedAt,
			user.LastAccruedAt,
			transactions,
			activePlans,
			user.ReferralCount,
			user.ReferredBy)
		if err != nil {
			return errors.Wrap(err, "insert user")
		}
		user.Version = 1
		return nil
	}

	res, err := s.dataBase.Exec(`
UPDATE users
	SET balance = ?,
	    active_hash_rate = ?,
	    last_accrued_at = ?,
	    transactions = ?,
	    active_plans = ?,
	    referral_count = ?,
	    version = version + 1
WHERE id = ? AND version = ?;`,
		user.Balance,
		user.ActiveHashRate,
		user.LastAccruedAt,
		transactions,
		activePlans,
		user.ReferralCount,
		user.ID,
		user.Version)
	if err != nil {
		return errors.Wrap(err, "update user")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return model.ErrConflictingWrite
	}

	user.Version++
	return nil
}

func encodeEmbedded(user *model.User) (string, string, error) {
	transactions, err := json.Marshal(user.Transactions)
	if err != nil {
		return "", "", errors.Wrap(err, "encode transactions")
	}
	activePlans, err := json.Marshal(user.ActivePlans)
	if err != nil {
		return "", "", errors.Wrap(err, "encode active plans")
	}
	return string(transactions), string(activePlans), nil
}

func readUsers(rows *sql.Rows) ([]*model.User, error) {
	defer rows.Close()

	var users []*model.User

	for rows.Next() {
		var (
			user         = &model.User{}
			transactions string
			activePlans  string
		)

		if err := rows.Scan(&user.ID,
			&user.LoginAddress,
			&user.Balance,
			&user.ActiveHashRate,
			&user.JoinedAt,
			&user.LastAccruedAt,
			&transactions,
			&activePlans,
			&user.ReferralCount,
			&user.ReferredBy,
			&user.Version); err != nil {
			return nil, errors.Wrap(err, "scan user row")
		}

		if err := json.Unmarshal([]byte(transactions), &user.Transactions); err != nil {
			return nil, errors.Wrapf(model.ErrMalformedRecord, "user %s transactions: %v", user.ID, err)
		}
		if err := json.Unmarshal([]byte(activePlans), &user.ActivePlans); err != nil {
			return nil, errors.Wrapf(model.ErrMalformedRecord, "user %s active plans: %v", user.ID, err)
		}

		users = append(users, user)
	}

	return users, rows.Err()
}
