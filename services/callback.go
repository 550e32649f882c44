package services

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/zecpool/cloud-miner/assets"
	"github.com/zecpool/cloud-miner/model"
	"github.com/zecpool/cloud-miner/msgs"
)

func (h *MessagesHandlers) InitCallbacks(userSrv *Users) {
	h.OnCommand("/select_plan", userSrv.SelectPlanCommand)
	h.OnCommand("/pay", userSrv.PayCommand)
	h.OnCommand("/settle", userSrv.SettleCommand)
}

func (u *Users) SelectPlanCommand(s *model.Situation) error {
	if s.User == nil {
		return u.StartCommand(s)
	}

	planID := callbackParam(s.Text, 1)
	if _, err := u.catalog.Plan(planID); err != nil {
		u.Msgs.SendAnswerCallback(s.CallbackID, assets.LangText("unknown_plan"))
		return nil
	}

	u.levels.SetField(s.ChatID, "plan", planID)
	u.Msgs.SendAnswerCallback(s.CallbackID, "")

	markUp := msgs.NewIlMarkUp(
		msgs.NewIlRow(msgs.NewIlDataButton("BTC", "/pay?BTC"),
			msgs.NewIlDataButton("LTC", "/pay?LTC")),
		msgs.NewIlRow(msgs.NewIlDataButton("USDT (TRC20)", "/pay?USDT_TRC20"),
			msgs.NewIlDataButton("USDT (BEP20)", "/pay?USDT_BEP20")),
	).Build()

	return u.Msgs.NewParseMarkUpMessage(s.ChatID, markUp, assets.LangText("select_currency"))
}

func (u *Users) PayCommand(s *model.Situation) error {
	if s.User == nil {
		return u.StartCommand(s)
	}

	currency := callbackParam(s.Text, 1)
	planID := u.levels.GetField(s.ChatID, "plan")

	plan, err := u.catalog.Plan(planID)
	if err != nil {
		u.Msgs.SendAnswerCallback(s.CallbackID, assets.LangText("unknown_plan"))
		return nil
	}

	address := u.catalog.Settings().PaymentConfig.AddressFor(currency)
	if address == "" {
		u.Msgs.SendAnswerCallback(s.CallbackID, assets.LangText("user_level_not_defined"))
		return nil
	}

	u.levels.SetField(s.ChatID, "currency", currency)
	u.levels.SetUser(s.ChatID, "/deposit_hash")
	u.Msgs.SendAnswerCallback(s.CallbackID, "")

	return u.Msgs.NewParseMessage(s.ChatID,
		assets.LangText("plan_instructions", plan.Name, plan.PriceZec, currency, address))
}

// SettleCommand resolves a pending transaction from the operator's
// inline review buttons. Data layout: /settle?userID?txID?DECISION.
func (u *Users) SettleCommand(s *model.Situation) error {
	if !u.config.IsAdmin(s.FromID) {
		u.Msgs.SendAnswerCallback(s.CallbackID, assets.LangText("user_level_not_defined"))
		return nil
	}

	userID := callbackParam(s.Text, 1)
	txID := callbackParam(s.Text, 2)
	decision := model.Decision(callbackParam(s.Text, 3))

	tx, err := u.admin.Settle(userID, txID, decision)
	switch {
	case errors.Is(err, model.ErrAlreadySettled):
		u.Msgs.SendAnswerCallback(s.CallbackID, assets.LangText("already_settled"))
		return nil
	case errors.Is(err, model.ErrTransactionNotFound), errors.Is(err, model.ErrUnknownUser):
		u.Msgs.SendAnswerCallback(s.CallbackID, assets.LangText("user_level_not_defined"))
		return nil
	case err != nil:
		return errors.Wrap(err, "settle")
	}

	u.Msgs.SendAnswerCallback(s.CallbackID, assets.LangText("settled_ok", tx.ID, string(tx.Status)))
	return nil
}

func callbackParam(data string, index int) string {
	params := strings.Split(data, "?")
	if index >= len(params) {
		return ""
	}
	return params[index]
}
