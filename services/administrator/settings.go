package administrator

import (
	"github.com/zecpool/cloud-miner/model"
)

// Settings returns the current global settings.
func (a *Admin) Settings() *model.GlobalSettings {
	return a.settings.Settings()
}

// UpdateSettings replaces the global settings after validation and
// persists them before they become visible.
func (a *Admin) UpdateSettings(settings *model.GlobalSettings) error {
	return a.settings.SetSettings(settings)
}

func (a *Admin) Plans() []*model.MiningPlan {
	return a.settings.Plans()
}

// UpdatePlans replaces the plan catalog. Deposits already submitted
// keep the terms frozen in their transactions.
func (a *Admin) UpdatePlans(plans []*model.MiningPlan) error {
	return a.settings.SetPlans(plans)
}
