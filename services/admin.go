package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/zecpool/cloud-miner/assets"
	"github.com/zecpool/cloud-miner/model"
	"github.com/zecpool/cloud-miner/msgs"
)

// Admin-only message commands. Settlement decisions themselves arrive
// as callbacks, see SettleCommand.

func (u *Users) PendingCommand(s *model.Situation) error {
	if !u.config.IsAdmin(s.FromID) {
		return u.MainMenuCommand(s)
	}

	pending, err := u.admin.PendingTransactions()
	if err != nil {
		return errors.Wrap(err, "list pending transactions")
	}

	if len(pending) == 0 {
		return u.Msgs.NewParseMessage(s.ChatID, assets.LangText("no_pending"))
	}

	for _, p := range pending {
		text := fmt.Sprintf("%s\n%s  %.6f ZEC\nuser: %s\ntx: %s",
			p.Transaction.Type,
			p.Transaction.Time().Format("2006-01-02 15:04"),
			p.Transaction.Amount,
			p.UserAddress,
			p.Transaction.TxHash)

		data := "/settle?" + p.UserID + "?" + p.Transaction.ID + "?"
		markUp := msgs.NewIlMarkUp(
			msgs.NewIlRow(
				msgs.NewIlDataButton(assets.LangText("approve_button"), data+string(model.DecisionApprove)),
				msgs.NewIlDataButton(assets.LangText("reject_button"), data+string(model.DecisionReject))),
		).Build()

		if err := u.Msgs.NewParseMarkUpMessage(s.ChatID, markUp, text); err != nil {
			return err
		}
	}

	return nil
}

func (u *Users) ManualWithdrawCommand(s *model.Situation) error {
	if !u.config.IsAdmin(s.FromID) {
		return u.MainMenuCommand(s)
	}

	params := strings.Fields(s.Text)
	if len(params) != 3 {
		return u.Msgs.NewParseMessage(s.ChatID, assets.LangText("manual_withdraw_usage"))
	}

	amount, err := strconv.ParseFloat(params[2], 64)
	if err != nil {
		return u.Msgs.NewParseMessage(s.ChatID, assets.LangText("incorrect_amount"))
	}

	target, err := u.admin.FindUserByAddress(params[1])
	if errors.Is(err, model.ErrUnknownUser) {
		return u.Msgs.NewParseMessage(s.ChatID, assets.LangText("user_level_not_defined"))
	}
	if err != nil {
		return errors.Wrap(err, "find user by address")
	}

	tx, err := u.admin.ManualWithdraw(target.ID, amount)
	if errors.Is(err, model.ErrInsufficientBalance) {
		return u.Msgs.NewParseMessage(s.ChatID, assets.LangText("lack_of_funds"))
	}
	if err != nil {
		return errors.Wrap(err, "manual withdraw")
	}

	return u.Msgs.NewParseMessage(s.ChatID,
		assets.LangText("manual_withdraw_done", tx.Amount, target.LoginAddress))
}

func (u *Users) SettingsCommand(s *model.Situation) error {
	if !u.config.IsAdmin(s.FromID) {
		return u.MainMenuCommand(s)
	}

	settings := u.admin.Settings()
	text := fmt.Sprintf("base mining rate: %g ZEC/H/s\nmin withdrawal: %.6f ZEC\nreferral bonus: %s\nZEC/USD: %.2f",
		settings.BaseMiningRate,
		settings.MinWithdrawalAmount,
		model.FormatHashRate(settings.ReferralBonusHashRate),
		settings.ZecToUsd)

	return u.Msgs.NewParseMessage(s.ChatID, text)
}

func (u *Users) SetMinWithdrawalCommand(s *model.Situation) error {
	return u.updateSetting(s, func(settings *model.GlobalSettings, value float64) {
		settings.MinWithdrawalAmount = value
	})
}

func (u *Users) SetReferralBonusCommand(s *model.Situation) error {
	return u.updateSetting(s, func(settings *model.GlobalSettings, value float64) {
		settings.ReferralBonusHashRate = int64(value)
	})
}

func (u *Users) updateSetting(s *model.Situation, apply func(*model.GlobalSettings, float64)) error {
	if !u.config.IsAdmin(s.FromID) {
		return u.MainMenuCommand(s)
	}

	params := strings.Fields(s.Text)
	if len(params) != 2 {
		return u.Msgs.NewParseMessage(s.ChatID, assets.LangText("incorrect_amount"))
	}
	value, err := strconv.ParseFloat(params[1], 64)
	if err != nil {
		return u.Msgs.NewParseMessage(s.ChatID, assets.LangText("incorrect_amount"))
	}

	settings := u.admin.Settings()
	apply(settings, value)

	if err := u.admin.UpdateSettings(settings); err != nil {
		if errors.Is(err, model.ErrInvalidSettings) {
			return u.Msgs.NewParseMessage(s.ChatID, assets.LangText("incorrect_amount"))
		}
		return errors.Wrap(err, "update settings")
	}

	return u.SettingsCommand(s)
}
