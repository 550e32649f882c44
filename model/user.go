package model

import (
	"time"
)

type TransactionType string

const (
	TxDeposit       TransactionType = "DEPOSIT"
	TxWithdraw      TransactionType = "WITHDRAW"
	TxMiningReward  TransactionType = "MINING_REWARD"
	TxPurchase      TransactionType = "PURCHASE"
	TxReferralBonus TransactionType = "REFERRAL_BONUS"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
)

type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// Hash rate unit multipliers, in H/s.
const (
	KH int64 = 1_000
	MH int64 = 1_000_000
	GH int64 = 1_000_000_000
	TH int64 = 1_000_000_000_000
)

// BaselineHashRate is assigned to every user at registration.
const BaselineHashRate = 10 * 1_000 // 10 kH/s

type User struct {
	ID             string         `json:"id"`
	LoginAddress   string         `json:"login_address"`
	Balance        float64        `json:"balance"`
	ActiveHashRate int64          `json:"active_hash_rate"`
	JoinedAt       int64          `json:"joined_at"`
	LastAccruedAt  int64          `json:"last_accrued_at"`
	Transactions   []*Transaction `json:"transactions"`
	ActivePlans    []string       `json:"active_plans"`
	ReferralCount  int            `json:"referral_count"`
	ReferredBy     string         `json:"referred_by,omitempty"`

	// Version counts durable commits of this record; zero means the
	// record has never been stored.
	Version int64 `json:"-"`
}

type Transaction struct {
	ID        string            `json:"id"`
	Type      TransactionType   `json:"type"`
	Amount    float64           `json:"amount"`
	Currency  string            `json:"currency,omitempty"`
	TxHash    string            `json:"tx_hash,omitempty"`
	Timestamp int64             `json:"timestamp"`
	Status    TransactionStatus `json:"status"`
	PlanID    string            `json:"plan_id,omitempty"`

	// PlanHashRate freezes the purchased plan's hash rate at submission
	// time, so later catalog edits cannot change what the buyer was
	// quoted.
	PlanHashRate int64 `json:"plan_hash_rate,omitempty"`
}

// Transaction returns the transaction with the given id, or nil.
func (u *User) Transaction(txID string) *Transaction {
	for _, tx := range u.Transactions {
		if tx.ID == txID {
			return tx
		}
	}
	return nil
}

func (u *User) HasPlan(planID string) bool {
	for _, id := range u.ActivePlans {
		if id == planID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can build a mutation candidate
// without touching the stored record.
func (u *User) Clone() *User {
	cp := *u
	cp.Transactions = make([]*Transaction, len(u.Transactions))
	for i, tx := range u.Transactions {
		txCp := *tx
		cp.Transactions[i] = &txCp
	}
	cp.ActivePlans = append([]string(nil), u.ActivePlans...)
	return &cp
}

func (tx *Transaction) Time() time.Time {
	return time.Unix(tx.Timestamp, 0)
}
