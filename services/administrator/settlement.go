package administrator

import (
	"github.com/zecpool/cloud-miner/assets"
	"github.com/zecpool/cloud-miner/log"
	"github.com/zecpool/cloud-miner/mining"
	"github.com/zecpool/cloud-miner/model"
)

// Admin is the settlement authority: it reviews pending transactions
// and resolves them, and owns the settings and plan catalog.
type Admin struct {
	engine   *mining.Engine
	ledger   model.Ledger
	settings *assets.Store
	logger   log.Logger
}

func NewAdmin(engine *mining.Engine, ledger model.Ledger, settings *assets.Store, logger log.Logger) *Admin {
	return &Admin{
		engine:   engine,
		ledger:   ledger,
		settings: settings,
		logger:   logger,
	}
}

// PendingTransaction pairs a pending transaction with its owner, for
// the operator's review queue.
type PendingTransaction struct {
	UserID      string
	UserAddress string
	Transaction *model.Transaction
}

// PendingTransactions lists every PENDING withdrawal and deposit across
// all users, grouped per user. No cross-user ordering is promised.
func (a *Admin) PendingTransactions() ([]PendingTransaction, error) {
	users, err := a.ledger.ListUsers()
	if err != nil {
		return nil, err
	}

	var pending []PendingTransaction
	for _, user := range users {
		for _, tx := range user.Transactions {
			if tx.Status != model.StatusPending {
				continue
			}
			if tx.Type != model.TxWithdraw && tx.Type != model.TxDeposit {
				continue
			}
			pending = append(pending, PendingTransaction{
				UserID:      user.ID,
				UserAddress: user.LoginAddress,
				Transaction: tx,
			})
		}
	}

	return pending, nil
}

// Settle resolves one pending transaction. Concurrent settles of the
// same transaction are safe: the engine applies effects only for the
// first caller that observes PENDING.
func (a *Admin) Settle(userID, txID string, decision model.Decision) (*model.Transaction, error) {
	return a.engine.Settle(userID, txID, decision)
}

// ManualWithdraw deducts immediately and records the withdrawal as
// already paid out.
func (a *Admin) ManualWithdraw(userID string, amount float64) (*model.Transaction, error) {
	return a.engine.ManualWithdraw(userID, amount)
}

// FindUserByAddress resolves the operator-facing address notation used
// by admin commands.
func (a *Admin) FindUserByAddress(address string) (*model.User, error) {
	return a.ledger.FindUserByLoginAddress(address)
}
