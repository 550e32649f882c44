package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zecpool/cloud-miner/model"
)

func newUser(id, address string) *model.User {
	now := time.Now().Unix()
	return &model.User{
		ID:             id,
		LoginAddress:   address,
		ActiveHashRate: model.BaselineHashRate,
		JoinedAt:       now,
		LastAccruedAt:  now,
		Transactions:   []*model.Transaction{},
		ActivePlans:    []string{},
	}
}

func TestMemoryLedgerRoundTrip(t *testing.T) {
	ledger := NewMemoryLedger()

	_, err := ledger.GetUser("missing")
	assert.ErrorIs(t, err, model.ErrUnknownUser)

	user := newUser("u1", "zs1addr")
	require.NoError(t, ledger.PutUser(user))
	assert.Equal(t, int64(1), user.Version)

	stored, err := ledger.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, "zs1addr", stored.LoginAddress)

	byAddress, err := ledger.FindUserByLoginAddress("zs1addr")
	require.NoError(t, err)
	assert.Equal(t, "u1", byAddress.ID)

	_, err = ledger.FindUserByLoginAddress("zs1other")
	assert.ErrorIs(t, err, model.ErrUnknownUser)
}

func TestMemoryLedgerConflictDetection(t *testing.T) {
	ledger := NewMemoryLedger()
	require.NoError(t, ledger.PutUser(newUser("u1", "zs1addr")))

	// Re-inserting an existing id is a conflict.
	err := ledger.PutUser(newUser("u1", "zs1addr"))
	assert.ErrorIs(t, err, model.ErrConflictingWrite)

	first, err := ledger.GetUser("u1")
	require.NoError(t, err)
	second, err := ledger.GetUser("u1")
	require.NoError(t, err)

	first.Balance = 1
	require.NoError(t, ledger.PutUser(first))

	// The second reader now holds a stale version.
	second.Balance = 2
	err = ledger.PutUser(second)
	assert.ErrorIs(t, err, model.ErrConflictingWrite)

	stored, err := ledger.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, stored.Balance)
}

func TestMemoryLedgerReturnsCopies(t *testing.T) {
	ledger := NewMemoryLedger()
	user := newUser("u1", "zs1addr")
	user.Transactions = append(user.Transactions, &model.Transaction{
		ID:     "tx1",
		Type:   model.TxWithdraw,
		Status: model.StatusPending,
	})
	require.NoError(t, ledger.PutUser(user))

	leaked, err := ledger.GetUser("u1")
	require.NoError(t, err)
	leaked.Balance = 99
	leaked.Transactions[0].Status = model.StatusCompleted

	stored, err := ledger.GetUser("u1")
	require.NoError(t, err)
	assert.Zero(t, stored.Balance)
	assert.Equal(t, model.StatusPending, stored.Transactions[0].Status)
}

func TestMemoryLedgerListOrder(t *testing.T) {
	ledger := NewMemoryLedger()

	older := newUser("u1", "zs1a")
	older.JoinedAt = 100
	newer := newUser("u2", "zs1b")
	newer.JoinedAt = 200

	require.NoError(t, ledger.PutUser(newer))
	require.NoError(t, ledger.PutUser(older))

	users, err := ledger.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "u2", users[1].ID)
}
