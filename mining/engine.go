package mining

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/zecpool/cloud-miner/log"
	"github.com/zecpool/cloud-miner/model"
)

const (
	// putAttempts bounds the read-modify-write retries on a ledger
	// write conflict.
	putAttempts = 3

	// minTxHashLen is the syntactic check applied to self-reported
	// payment references.
	minTxHashLen = 10
)

// Engine owns balance accrual and the transaction lifecycle. All
// per-user mutations go through Mutate, which linearizes them with a
// per-user lock and the ledger's versioned put.
type Engine struct {
	ledger  model.Ledger
	catalog model.Catalog
	logger  log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() time.Time
}

func NewEngine(ledger model.Ledger, catalog model.Catalog, logger log.Logger) *Engine {
	return &Engine{
		ledger:  ledger,
		catalog: catalog,
		logger:  logger,
		locks:   make(map[string]*sync.Mutex),
		now:     time.Now,
	}
}

func (e *Engine) lockUser(userID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[userID] = lock
	}
	return lock
}

// Mutate runs fn against a fresh copy of the user record and commits
// the result. A conflicting write discards the candidate and retries
// the whole cycle; fn failures abort before anything is persisted.
func (e *Engine) Mutate(userID string, fn func(user *model.User) error) (*model.User, error) {
	lock := e.lockUser(userID)
	lock.Lock()
	defer lock.Unlock()

	var lastErr error
	for attempt := 0; attempt < putAttempts; attempt++ {
		user, err := e.ledger.GetUser(userID)
		if err != nil {
			return nil, err
		}

		if err := fn(user); err != nil {
			return nil, err
		}

		err = e.ledger.PutUser(user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, model.ErrConflictingWrite) {
			return nil, err
		}

		model.WriteConflicts.Inc()
		lastErr = err
	}

	return nil, lastErr
}

// accrue folds the earnings since the user's last accrual into the
// balance candidate. The caller commits via Mutate.
func (e *Engine) accrue(user *model.User) float64 {
	now := e.now().Unix()
	earned := Accrue(user.ActiveHashRate,
		e.catalog.Settings().BaseMiningRate,
		float64(now-user.LastAccruedAt))

	user.Balance += earned
	user.LastAccruedAt = now
	return earned
}

// AccrueAndFlush commits the earnings accrued since the user's stored
// last-accrual timestamp and returns the refreshed record.
func (e *Engine) AccrueAndFlush(userID string) (*model.User, float64, error) {
	var earned float64
	user, err := e.Mutate(userID, func(user *model.User) error {
		earned = e.accrue(user)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	model.AccrualFlushes.Inc()
	return user, earned, nil
}

// SweepAccruals flushes every user once. Balances are already exact on
// read thanks to lazy accrual; the sweep just keeps stored records
// fresh for admin listings.
func (e *Engine) SweepAccruals() {
	users, err := e.ledger.ListUsers()
	if err != nil {
		e.logger.Warn("accrual sweep: list users: %s", err.Error())
		return
	}

	for _, user := range users {
		if _, _, err := e.AccrueAndFlush(user.ID); err != nil {
			e.logger.Warn("accrual sweep: user %s: %s", user.ID, err.Error())
		}
	}
}

// SubmitWithdraw escrows the amount and appends a PENDING withdrawal.
// Earnings are accrued first so the balance check sees the freshest
// value.
func (e *Engine) SubmitWithdraw(userID string, amount float64) (*model.Transaction, error) {
	var tx *model.Transaction
	_, err := e.Mutate(userID, func(user *model.User) error {
		e.accrue(user)

		settings := e.catalog.Settings()
		if amount <= 0 || amount < settings.MinWithdrawalAmount {
			return model.ErrBelowMinimumWithdrawal
		}
		if amount > user.Balance {
			return model.ErrInsufficientBalance
		}

		user.Balance -= amount
		tx = &model.Transaction{
			ID:        uuid.NewString(),
			Type:      model.TxWithdraw,
			Amount:    amount,
			Currency:  "ZEC",
			Timestamp: e.now().Unix(),
			Status:    model.StatusPending,
		}
		user.Transactions = append(user.Transactions, tx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	model.SubmittedTransactions.WithLabelValues(string(model.TxWithdraw)).Inc()
	return tx, nil
}

// SubmitDeposit records a plan purchase awaiting operator confirmation.
// The plan's price and hash rate are frozen into the transaction at
// submission time; no balance changes until settlement.
func (e *Engine) SubmitDeposit(userID, planID, currency, txHash string) (*model.Transaction, error) {
	if len(txHash) < minTxHashLen {
		return nil, model.ErrInvalidTransactionHash
	}

	plan, err := e.catalog.Plan(planID)
	if err != nil {
		return nil, err
	}

	var tx *model.Transaction
	_, err = e.Mutate(userID, func(user *model.User) error {
		tx = &model.Transaction{
			ID:           uuid.NewString(),
			Type:         model.TxDeposit,
			Amount:       plan.PriceZec,
			Currency:     currency,
			TxHash:       txHash,
			Timestamp:    e.now().Unix(),
			Status:       model.StatusPending,
			PlanID:       plan.ID,
			PlanHashRate: plan.HashRate,
		}
		user.Transactions = append(user.Transactions, tx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	model.SubmittedTransactions.WithLabelValues(string(model.TxDeposit)).Inc()
	return tx, nil
}

// ManualWithdraw is the operator-initiated immediate deduction; the
// transaction bypasses PENDING and is recorded COMPLETED.
func (e *Engine) ManualWithdraw(userID string, amount float64) (*model.Transaction, error) {
	var tx *model.Transaction
	_, err := e.Mutate(userID, func(user *model.User) error {
		e.accrue(user)

		if amount <= 0 || amount > user.Balance {
			return model.ErrInsufficientBalance
		}

		user.Balance -= amount
		tx = &model.Transaction{
			ID:        uuid.NewString(),
			Type:      model.TxWithdraw,
			Amount:    amount,
			Currency:  "ZEC",
			Timestamp: e.now().Unix(),
			Status:    model.StatusCompleted,
		}
		user.Transactions = append(user.Transactions, tx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	model.SubmittedTransactions.WithLabelValues(string(model.TxWithdraw)).Inc()
	return tx, nil
}

// Settle applies the terminal transition for a PENDING transaction.
// Only the first caller that observes PENDING applies effects; later
// calls get ErrAlreadySettled and change nothing.
func (e *Engine) Settle(userID, txID string, decision model.Decision) (*model.Transaction, error) {
	if decision != model.DecisionApprove && decision != model.DecisionReject {
		return nil, errors.Errorf("unknown settlement decision %q", decision)
	}

	var settled *model.Transaction
	_, err := e.Mutate(userID, func(user *model.User) error {
		tx := user.Transaction(txID)
		if tx == nil {
			return model.ErrTransactionNotFound
		}
		if tx.Status != model.StatusPending {
			return model.ErrAlreadySettled
		}

		switch tx.Type {
		case model.TxWithdraw:
			if decision == model.DecisionApprove {
				tx.Status = model.StatusCompleted
			} else {
				// Refund the escrowed amount.
				tx.Status = model.StatusFailed
				user.Balance += tx.Amount
			}
		case model.TxDeposit:
			if decision == model.DecisionApprove {
				tx.Status = model.StatusCompleted
				user.ActiveHashRate += tx.PlanHashRate
				if tx.PlanID != "" && !user.HasPlan(tx.PlanID) {
					user.ActivePlans = append(user.ActivePlans, tx.PlanID)
				}
			} else {
				tx.Status = model.StatusFailed
			}
		default:
			return errors.Errorf("transaction %s of type %s is not settleable", tx.ID, tx.Type)
		}

		settled = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	model.SettledTransactions.WithLabelValues(string(settled.Type), string(decision)).Inc()
	return settled, nil
}
