package administrator

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zecpool/cloud-miner/assets"
	"github.com/zecpool/cloud-miner/db"
	"github.com/zecpool/cloud-miner/log"
	"github.com/zecpool/cloud-miner/mining"
	"github.com/zecpool/cloud-miner/model"
)

func newTestAdmin(t *testing.T) (*Admin, *mining.Engine, *db.MemoryLedger, *assets.Store) {
	t.Helper()

	ledger := db.NewMemoryLedger()
	store, err := assets.Load(t.TempDir())
	require.NoError(t, err)

	logger := log.NewDefaultLogger()
	engine := mining.NewEngine(ledger, store, logger)
	admin := NewAdmin(engine, ledger, store, logger)
	return admin, engine, ledger, store
}

func seedUser(t *testing.T, ledger model.Ledger, balance float64) *model.User {
	t.Helper()

	now := time.Now().Unix()
	user := &model.User{
		ID:             uuid.NewString(),
		LoginAddress:   "zs1settle" + uuid.NewString()[:8],
		Balance:        balance,
		ActiveHashRate: 0,
		JoinedAt:       now,
		LastAccruedAt:  now,
		Transactions:   []*model.Transaction{},
		ActivePlans:    []string{},
	}
	require.NoError(t, ledger.PutUser(user))
	return user
}

func TestWithdrawApproveKeepsEscrowedBalance(t *testing.T) {
	admin, engine, ledger, _ := newTestAdmin(t)
	user := seedUser(t, ledger, 0.1)

	tx, err := engine.SubmitWithdraw(user.ID, 0.05)
	require.NoError(t, err)

	settled, err := admin.Settle(user.ID, tx.ID, model.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, settled.Status)

	stored, err := ledger.GetUser(user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, stored.Balance, 1e-12)
}

func TestWithdrawRejectRefundsEscrow(t *testing.T) {
	admin, engine, ledger, _ := newTestAdmin(t)
	user := seedUser(t, ledger, 0.1)

	tx, err := engine.SubmitWithdraw(user.ID, 0.05)
	require.NoError(t, err)

	settled, err := admin.Settle(user.ID, tx.ID, model.DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, settled.Status)

	stored, err := ledger.GetUser(user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, stored.Balance, 1e-12)
}

func TestSettleIdempotent(t *testing.T) {
	admin, engine, ledger, _ := newTestAdmin(t)
	user := seedUser(t, ledger, 0.1)

	tx, err := engine.SubmitWithdraw(user.ID, 0.05)
	require.NoError(t, err)

	_, err = admin.Settle(user.ID, tx.ID, model.DecisionApprove)
	require.NoError(t, err)

	after, err := ledger.GetUser(user.ID)
	require.NoError(t, err)

	// The second call reports AlreadySettled and changes nothing, even
	// when it would have refunded.
	_, err = admin.Settle(user.ID, tx.ID, model.DecisionReject)
	assert.ErrorIs(t, err, model.ErrAlreadySettled)

	again, err := ledger.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, after.Balance, again.Balance)
	assert.Equal(t, after.Transactions[0].Status, again.Transactions[0].Status)
}

func TestSettleUnknownTransaction(t *testing.T) {
	admin, _, ledger, _ := newTestAdmin(t)
	user := seedUser(t, ledger, 0.1)

	_, err := admin.Settle(user.ID, "no-such-tx", model.DecisionApprove)
	assert.ErrorIs(t, err, model.ErrTransactionNotFound)
}

func TestDepositApproveGrantsPlanOnce(t *testing.T) {
	admin, engine, ledger, store := newTestAdmin(t)
	user := seedUser(t, ledger, 0)

	plan, err := store.Plan("plan_starter")
	require.NoError(t, err)

	tx, err := engine.SubmitDeposit(user.ID, plan.ID, "BTC", "aabbccddeeff00112233")
	require.NoError(t, err)

	settled, err := admin.Settle(user.ID, tx.ID, model.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, settled.Status)

	stored, err := ledger.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.HashRate, stored.ActiveHashRate)
	assert.Equal(t, []string{plan.ID}, stored.ActivePlans)

	_, err = admin.Settle(user.ID, tx.ID, model.DecisionApprove)
	assert.ErrorIs(t, err, model.ErrAlreadySettled)

	stored, err = ledger.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.HashRate, stored.ActiveHashRate, "hash rate granted exactly once")
}

func TestDepositRejectLeavesHashRate(t *testing.T) {
	admin, engine, ledger, store := newTestAdmin(t)
	user := seedUser(t, ledger, 0)

	plan, err := store.Plan("plan_starter")
	require.NoError(t, err)

	tx, err := engine.SubmitDeposit(user.ID, plan.ID, "BTC", "aabbccddeeff00112233")
	require.NoError(t, err)

	settled, err := admin.Settle(user.ID, tx.ID, model.DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, settled.Status)

	stored, err := ledger.GetUser(user.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.ActiveHashRate)
	assert.Empty(t, stored.ActivePlans)
	assert.Zero(t, stored.Balance)
}

func TestDepositTermsFrozenAtSubmission(t *testing.T) {
	admin, engine, ledger, store := newTestAdmin(t)
	user := seedUser(t, ledger, 0)

	plan, err := store.Plan("plan_starter")
	require.NoError(t, err)

	tx, err := engine.SubmitDeposit(user.ID, plan.ID, "BTC", "aabbccddeeff00112233")
	require.NoError(t, err)

	// The catalog is emptied between submission and approval; the
	// buyer still gets the quoted terms.
	require.NoError(t, admin.UpdatePlans([]*model.MiningPlan{}))

	_, err = admin.Settle(user.ID, tx.ID, model.DecisionApprove)
	require.NoError(t, err)

	stored, err := ledger.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.HashRate, stored.ActiveHashRate)
}

func TestPendingTransactions(t *testing.T) {
	admin, engine, ledger, _ := newTestAdmin(t)

	alice := seedUser(t, ledger, 1)
	bob := seedUser(t, ledger, 1)

	pending, err := admin.PendingTransactions()
	require.NoError(t, err)
	assert.Empty(t, pending)

	withdrawal, err := engine.SubmitWithdraw(alice.ID, 0.5)
	require.NoError(t, err)
	deposit, err := engine.SubmitDeposit(bob.ID, "plan_starter", "LTC", "aabbccddeeff00112233")
	require.NoError(t, err)
	// Referral bonuses are COMPLETED on creation and never appear.
	_, err = engine.Mutate(bob.ID, func(u *model.User) error {
		u.Transactions = append(u.Transactions, &model.Transaction{
			ID:        uuid.NewString(),
			Type:      model.TxReferralBonus,
			Timestamp: time.Now().Unix(),
			Status:    model.StatusCompleted,
		})
		return nil
	})
	require.NoError(t, err)

	pending, err = admin.PendingTransactions()
	require.NoError(t, err)
	require.Len(t, pending, 2)

	byTx := map[string]PendingTransaction{}
	for _, p := range pending {
		byTx[p.Transaction.ID] = p
	}
	assert.Equal(t, alice.ID, byTx[withdrawal.ID].UserID)
	assert.Equal(t, alice.LoginAddress, byTx[withdrawal.ID].UserAddress)
	assert.Equal(t, bob.ID, byTx[deposit.ID].UserID)
}

func TestBalanceNeverNegative(t *testing.T) {
	admin, engine, ledger, _ := newTestAdmin(t)
	user := seedUser(t, ledger, 0.1)

	first, err := engine.SubmitWithdraw(user.ID, 0.05)
	require.NoError(t, err)
	second, err := engine.SubmitWithdraw(user.ID, 0.05)
	require.NoError(t, err)

	// Everything is escrowed now; further requests must bounce.
	_, err = engine.SubmitWithdraw(user.ID, 0.05)
	assert.ErrorIs(t, err, model.ErrInsufficientBalance)

	_, err = admin.Settle(user.ID, first.ID, model.DecisionApprove)
	require.NoError(t, err)
	_, err = admin.Settle(user.ID, second.ID, model.DecisionReject)
	require.NoError(t, err)

	stored, err := ledger.GetUser(user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, stored.Balance, 1e-9)
	assert.GreaterOrEqual(t, stored.Balance, 0.0)
}

func TestManualWithdrawViaAdmin(t *testing.T) {
	admin, _, ledger, _ := newTestAdmin(t)
	user := seedUser(t, ledger, 1)

	found, err := admin.FindUserByAddress(user.LoginAddress)
	require.NoError(t, err)

	tx, err := admin.ManualWithdraw(found.ID, 0.25)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, tx.Status)

	stored, err := ledger.GetUser(user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, stored.Balance, 1e-9)
}
