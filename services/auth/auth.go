package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/zecpool/cloud-miner/log"
	"github.com/zecpool/cloud-miner/mining"
	"github.com/zecpool/cloud-miner/model"
)

// Auth creates users and attributes referrals. Identity establishment
// itself is external: whoever presents an address is that address.
type Auth struct {
	engine  *mining.Engine
	ledger  model.Ledger
	catalog model.Catalog
	logger  log.Logger
}

func NewAuth(engine *mining.Engine, ledger model.Ledger, catalog model.Catalog, logger log.Logger) *Auth {
	return &Auth{
		engine:  engine,
		ledger:  ledger,
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterUser creates a user with the baseline hash rate and, when the
// referrer exists, grants the one-shot referral bonus. An unknown or
// self referrer is silently ignored.
func (a *Auth) RegisterUser(address, referrerID string) (*model.User, error) {
	if address == "" {
		return nil, errors.New("empty login address")
	}
	if _, err := a.ledger.FindUserByLoginAddress(address); err == nil {
		return nil, model.ErrUserAlreadyExists
	}

	now := time.Now().Unix()
	user := &model.User{
		ID:             uuid.NewString(),
		LoginAddress:   address,
		ActiveHashRate: model.BaselineHashRate,
		JoinedAt:       now,
		LastAccruedAt:  now,
		Transactions:   []*model.Transaction{},
		ActivePlans:    []string{},
		ReferredBy:     referrerID,
	}

	if err := a.ledger.PutUser(user); err != nil {
		return nil, errors.Wrap(err, "store new user")
	}
	model.RegisteredUsers.Inc()

	a.attributeReferral(user, referrerID)

	return user, nil
}

// LoginByAddress returns the user owning the address, registering a new
// one on first sight.
func (a *Auth) LoginByAddress(address, referrerID string) (*model.User, error) {
	user, err := a.ledger.FindUserByLoginAddress(address)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, model.ErrUnknownUser) {
		return nil, err
	}

	return a.RegisterUser(address, referrerID)
}

func (a *Auth) GetUser(id string) (*model.User, error) {
	return a.ledger.GetUser(id)
}

// attributeReferral fires once, at registration. The bonus mutation is
// linearized through the engine so a concurrent flush on the referrer
// cannot swallow it.
func (a *Auth) attributeReferral(user *model.User, referrerID string) {
	if referrerID == "" || referrerID == user.ID {
		return
	}

	bonus := a.catalog.Settings().ReferralBonusHashRate

	_, err := a.engine.Mutate(referrerID, func(referrer *model.User) error {
		referrer.ActiveHashRate += bonus
		referrer.ReferralCount++
		referrer.Transactions = append(referrer.Transactions, &model.Transaction{
			ID:        uuid.NewString(),
			Type:      model.TxReferralBonus,
			Amount:    0,
			Currency:  "ZEC",
			Timestamp: time.Now().Unix(),
			Status:    model.StatusCompleted,
		})
		return nil
	})
	if err != nil {
		if !errors.Is(err, model.ErrUnknownUser) {
			a.logger.Warn("referral attribution for %s: %s", referrerID, err.Error())
		}
		return
	}

	model.ReferralBonuses.Inc()
}
