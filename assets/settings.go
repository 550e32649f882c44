package assets

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/zecpool/cloud-miner/model"
)

const (
	settingsFile = "settings.json"
	plansFile    = "plans.json"
)

// Store holds the admin-owned global settings and plan catalog, backed
// by JSON files; every write is persisted before it is visible.
type Store struct {
	mu  sync.RWMutex
	dir string

	settings *model.GlobalSettings
	plans    []*model.MiningPlan
}

// Load reads the settings and catalog. A missing file is backfilled
// with the defaults once; a present but malformed file is an error, not
// a silent default.
func Load(dir string) (*Store, error) {
	store := &Store{dir: dir}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.Wrap(err, "create assets dir")
	}

	settings, err := loadFile(filepath.Join(dir, settingsFile), &model.GlobalSettings{})
	if err != nil {
		return nil, err
	}
	store.settings = settings

	var plans []*model.MiningPlan
	if err := loadInto(filepath.Join(dir, plansFile), &plans); err != nil {
		return nil, err
	}
	store.plans = plans

	if err := store.backfill(); err != nil {
		return nil, err
	}

	return store, nil
}

func loadFile(path string, settings *model.GlobalSettings) (*model.GlobalSettings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read settings")
	}
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, errors.Wrapf(model.ErrMalformedRecord, "%s: %v", path, err)
	}
	return settings, nil
}

func loadInto(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "read plans")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(model.ErrMalformedRecord, "%s: %v", path, err)
	}
	return nil
}

// backfill writes the default settings and catalog for files that were
// absent. This is the one place defaults are applied.
func (s *Store) backfill() error {
	if s.settings == nil {
		s.settings = defaultSettings()
		if err := s.save(filepath.Join(s.dir, settingsFile), s.settings); err != nil {
			return err
		}
	}
	if s.plans == nil {
		s.plans = defaultPlans()
		if err := s.save(filepath.Join(s.dir, plansFile), s.plans); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) save(path string, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(err, "write "+filepath.Base(path))
	}
	return nil
}

func (s *Store) Settings() *model.GlobalSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := *s.settings
	return &settings
}

func (s *Store) SetSettings(settings *model.GlobalSettings) error {
	if settings.BaseMiningRate < 0 ||
		settings.MinWithdrawalAmount < 0 ||
		settings.ReferralBonusHashRate < 0 {
		return model.ErrInvalidSettings
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(filepath.Join(s.dir, settingsFile), settings); err != nil {
		return err
	}

	cp := *settings
	s.settings = &cp
	return nil
}

func (s *Store) Plans() []*model.MiningPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plans := make([]*model.MiningPlan, len(s.plans))
	for i, plan := range s.plans {
		cp := *plan
		plans[i] = &cp
	}
	return plans
}

func (s *Store) Plan(id string) (*model.MiningPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, plan := range s.plans {
		if plan.ID == id {
			cp := *plan
			return &cp, nil
		}
	}
	return nil, model.ErrUnknownPlan
}

func (s *Store) SetPlans(plans []*model.MiningPlan) error {
	for _, plan := range plans {
		if plan.ID == "" || plan.HashRate < 0 || plan.PriceZec < 0 {
			return model.ErrInvalidSettings
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(filepath.Join(s.dir, plansFile), plans); err != nil {
		return err
	}

	cp := make([]*model.MiningPlan, len(plans))
	for i, plan := range plans {
		p := *plan
		cp[i] = &p
	}
	s.plans = cp
	return nil
}

func defaultSettings() *model.GlobalSettings {
	return &model.GlobalSettings{
		ZecToUsd:              32.50,
		BaseMiningRate:        0.0000000001, // ZEC per H per second
		MinWithdrawalAmount:   0.05,
		ReferralBonusHashRate: 5 * model.KH,
		SupportEmail:          "contact@example.com",
		PaymentConfig: model.PaymentConfig{
			BtcAddress:       "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh",
			LtcAddress:       "ltc1q5g5258n7f3d53q553957539753957",
			UsdtTrc20Address: "TKP7...TRC20Address",
			UsdtBep20Address: "0x71C...BEP20Address",
		},
	}
}

func defaultPlans() []*model.MiningPlan {
	return []*model.MiningPlan{
		{
			ID:            "plan_starter",
			Name:          "Starter Cloud",
			HashRate:      1 * model.GH,
			HashRateLabel: "1 GH/s",
			PriceZec:      0.5,
			DailyProfit:   0.015,
		},
		{
			ID:            "plan_advanced",
			Name:          "Advanced Rig",
			HashRate:      100 * model.GH,
			HashRateLabel: "100 GH/s",
			PriceZec:      45,
			DailyProfit:   1.6,
		},
		{
			ID:            "plan_enterprise",
			Name:          "Enterprise Farm",
			HashRate:      1 * model.TH,
			HashRateLabel: "1 TH/s",
			PriceZec:      420,
			DailyProfit:   18.5,
		},
	}
}
