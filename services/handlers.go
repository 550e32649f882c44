package services

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/zecpool/cloud-miner/assets"
	"github.com/zecpool/cloud-miner/cfg"
	"github.com/zecpool/cloud-miner/db"
	"github.com/zecpool/cloud-miner/log"
	"github.com/zecpool/cloud-miner/mining"
	"github.com/zecpool/cloud-miner/model"
	"github.com/zecpool/cloud-miner/msgs"
	"github.com/zecpool/cloud-miner/services/administrator"
	"github.com/zecpool/cloud-miner/services/auth"
	"github.com/zecpool/cloud-miner/utils"
)

type MessagesHandlers struct {
	Handlers map[string]model.Handler
}

func (h *MessagesHandlers) GetHandler(command string) model.Handler {
	return h.Handlers[command]
}

func (h *MessagesHandlers) OnCommand(command string, handler func(*model.Situation) error) {
	h.Handlers[command] = model.HandlerFunc(handler)
}

func (h *MessagesHandlers) Init(userSrv *Users) {
	// Start commands
	h.OnCommand("/start", userSrv.StartCommand)
	h.OnCommand("/login", userSrv.LoginCommand)

	// Main commands
	h.OnCommand("/main_menu", userSrv.MainMenuCommand)
	h.OnCommand("/main_profile", userSrv.ProfileCommand)
	h.OnCommand("/main_withdraw", userSrv.WithdrawCommand)
	h.OnCommand("/withdraw_amount", userSrv.WithdrawAmountCommand)
	h.OnCommand("/main_plans", userSrv.PlansCommand)
	h.OnCommand("/deposit_hash", userSrv.DepositHashCommand)
	h.OnCommand("/main_referral", userSrv.ReferralCommand)

	// Admin commands
	h.OnCommand("/pending", userSrv.PendingCommand)
	h.OnCommand("/manual_withdraw", userSrv.ManualWithdrawCommand)
	h.OnCommand("/settings", userSrv.SettingsCommand)
	h.OnCommand("/set_min_withdrawal", userSrv.SetMinWithdrawalCommand)
	h.OnCommand("/set_referral_bonus", userSrv.SetReferralBonusCommand)
}

// Users serves the Telegram side of the service: dialogs in, engine
// calls out. No invariants live here.
type Users struct {
	config  *cfg.Config
	bot     *tgbotapi.BotAPI
	updates tgbotapi.UpdatesChannel

	engine  *mining.Engine
	auth    *auth.Auth
	admin   *administrator.Admin
	catalog model.Catalog
	levels  *db.LevelStore

	Msgs   *msgs.Service
	logger log.Logger

	messageHandlers  *MessagesHandlers
	callbackHandlers *MessagesHandlers
}

func NewUsers(config *cfg.Config, bot *tgbotapi.BotAPI, updates tgbotapi.UpdatesChannel,
	engine *mining.Engine, authSrv *auth.Auth, admin *administrator.Admin,
	catalog model.Catalog, levels *db.LevelStore, msgsSrv *msgs.Service, logger log.Logger) *Users {

	u := &Users{
		config:  config,
		bot:     bot,
		updates: updates,
		engine:  engine,
		auth:    authSrv,
		admin:   admin,
		catalog: catalog,
		levels:  levels,
		Msgs:    msgsSrv,
		logger:  logger,
	}

	u.messageHandlers = &MessagesHandlers{Handlers: make(map[string]model.Handler)}
	u.messageHandlers.Init(u)

	u.callbackHandlers = &MessagesHandlers{Handlers: make(map[string]model.Handler)}
	u.callbackHandlers.InitCallbacks(u)

	return u
}

func (u *Users) ActionsWithUpdates(sortCentre *utils.Spreader) {
	for update := range u.updates {
		localUpdate := update

		go u.checkUpdate(&localUpdate, sortCentre)
	}
}

func (u *Users) checkUpdate(update *tgbotapi.Update, sortCentre *utils.Spreader) {
	defer u.panicCatcher(update)

	if update.Message == nil && update.CallbackQuery == nil {
		return
	}

	if update.Message != nil {
		u.checkMessage(update.Message, sortCentre)
		return
	}

	u.checkCallbackQuery(update.CallbackQuery, sortCentre)
}

func (u *Users) checkMessage(message *tgbotapi.Message, sortCentre *utils.Spreader) {
	situation := &model.Situation{
		ChatID: message.Chat.ID,
		FromID: message.From.ID,
		Text:   message.Text,
	}
	u.attachLedgerUser(situation)

	situation.Command = commandFromMessage(message.Text)
	if situation.Command == "" {
		// Mid-dialog input is routed by the stored level.
		situation.Command = strings.Split(u.levels.GetLevel(message.Chat.ID), "?")[0]
	}

	handler := u.messageHandlers.GetHandler(situation.Command)
	if handler == nil {
		_ = u.Msgs.NewParseMessage(situation.ChatID, assets.LangText("user_level_not_defined"))
		return
	}

	sortCentre.ServeHandler(handler, situation, func(err error) {
		u.reportHandlerError(situation, err)
	})
}

func (u *Users) checkCallbackQuery(callback *tgbotapi.CallbackQuery, sortCentre *utils.Spreader) {
	situation := &model.Situation{
		ChatID:     callback.Message.Chat.ID,
		FromID:     callback.From.ID,
		Text:       callback.Data,
		Command:    strings.Split(callback.Data, "?")[0],
		CallbackID: callback.ID,
	}
	u.attachLedgerUser(situation)

	handler := u.callbackHandlers.GetHandler(situation.Command)
	if handler == nil {
		u.Msgs.SendAnswerCallback(callback.ID, assets.LangText("user_level_not_defined"))
		return
	}

	sortCentre.ServeHandler(handler, situation, func(err error) {
		u.reportHandlerError(situation, err)
	})
}

func (u *Users) attachLedgerUser(situation *model.Situation) {
	ledgerID := u.levels.GetField(situation.ChatID, "ledger")
	if ledgerID == "" {
		return
	}

	user, err := u.auth.GetUser(ledgerID)
	if err != nil {
		u.logger.Warn("resolve ledger user %s: %s", ledgerID, err.Error())
		return
	}
	situation.User = user
}

func (u *Users) reportHandlerError(situation *model.Situation, err error) {
	text := fmt.Sprintf("%s // error with serve command %s: %s",
		u.config.BotLink,
		situation.Command,
		err.Error(),
	)
	u.Msgs.SendNotificationToDeveloper(text)

	u.logger.Warn(text)
	_ = u.Msgs.NewParseMessage(situation.ChatID, assets.LangText("user_level_not_defined"))
}

func (u *Users) panicCatcher(update *tgbotapi.Update) {
	r := recover()
	if r == nil {
		return
	}

	text := fmt.Sprintf("panic in update handler: %v", r)
	u.logger.Warn(text)
	u.Msgs.SendNotificationToDeveloper(text)
	_ = update
}

// commandFromMessage maps slash commands and main-menu button labels to
// handler commands.
func commandFromMessage(text string) string {
	if strings.HasPrefix(text, "/") {
		return strings.Fields(text)[0]
	}
	return assets.CommandFromText(text)
}

func (u *Users) StartCommand(s *model.Situation) error {
	// Deep-link payload carries the referrer's user id.
	params := strings.Fields(s.Text)
	if len(params) > 1 {
		u.levels.SetField(s.ChatID, "referrer", params[1])
	}

	if s.User != nil {
		return u.MainMenuCommand(s)
	}

	u.levels.SetUser(s.ChatID, "/login")
	return u.Msgs.NewParseMessage(s.ChatID, assets.LangText("start_text"))
}

func (u *Users) LoginCommand(s *model.Situation) error {
	address := strings.TrimSpace(s.Text)
	if address == "" || strings.HasPrefix(address, "/") {
		return u.Msgs.NewParseMessage(s.ChatID, assets.LangText("start_text"))
	}

	user, err := u.auth.LoginByAddress(address, u.levels.GetField(s.ChatID, "referrer"))
	if err != nil {
		return errors.Wrap(err, "login by address")
	}

	u.levels.SetField(s.ChatID, "ledger", user.ID)
	s.User = user
	return u.MainMenuCommand(s)
}

func (u *Users) MainMenuCommand(s *model.Situation) error {
	u.levels.SetUser(s.ChatID, "main")

	markUp := msgs.NewMarkUp(
		msgs.NewRow(msgs.NewDataButton("main_profile_button"),
			msgs.NewDataButton("main_withdraw_button")),
		msgs.NewRow(msgs.NewDataButton("main_plans_button"),
			msgs.NewDataButton("main_referral_button")),
	).Build()

	return u.Msgs.NewParseMarkUpMessage(s.ChatID, markUp, assets.LangText("main_select_menu"))
}

func (u *Users) ProfileCommand(s *model.Situation) error {
	if s.User == nil {
		return u.StartCommand(s)
	}

	user, _, err := u.engine.AccrueAndFlush(s.User.ID)
	if err != nil {
		return errors.Wrap(err, "accrue on profile read")
	}

	text := assets.LangText("profile_text",
		user.LoginAddress,
		user.Balance,
		model.FormatHashRate(user.ActiveHashRate),
		len(user.ActivePlans),
		user.ReferralCount)

	return u.Msgs.NewParseMessage(s.ChatID, text)
}

func (u *Users) WithdrawCommand(s *model.Situation) error {
	if s.User == nil {
		return u.StartCommand(s)
	}

	u.levels.SetUser(s.ChatID, "/withdraw_amount")

	settings := u.catalog.Settings()
	return u.Msgs.NewParseMessage(s.ChatID,
		assets.LangText("req_withdrawal_amount", settings.MinWithdrawalAmount))
}

func (u *Users) WithdrawAmountCommand(s *model.Situation) error {
	if s.User == nil {
		return u.StartCommand(s)
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(s.Text), 64)
	if err != nil {
		return u.Msgs.NewParseMessage(s.ChatID, assets.LangText("incorrect_amount"))
	}

	tx, err := u.engine.SubmitWithdraw(s.User.ID, amount)
	switch {
	case errors.Is(err, model.ErrBelowMinimumWithdrawal):
		return u.Msgs.NewParseMessage(s.ChatID,
			assets.LangText("minimum_amount_not_reached", u.catalog.Settings().MinWithdrawalAmount))
	case errors.Is(err, model.ErrInsufficientBalance):
		return u.Msgs.NewParseMessage(s.ChatID, assets.LangText("lack_of_funds"))
	case err != nil:
		return errors.Wrap(err, "submit withdraw")
	}

	u.levels.SetUser(s.ChatID, "main")
	return u.Msgs.NewParseMessage(s.ChatID,
		assets.LangText("withdrawal_submitted", tx.Amount))
}

func (u *Users) PlansCommand(s *model.Situation) error {
	if s.User == nil {
		return u.StartCommand(s)
	}

	var rows []msgs.InlineRow
	for _, plan := range u.catalog.Plans() {
		label := fmt.Sprintf("%s (%s) %.4f ZEC", plan.Name, plan.HashRateLabel, plan.PriceZec)
		rows = append(rows, msgs.NewIlRow(msgs.NewIlDataButton(label, "/select_plan?"+plan.ID)))
	}

	markUp := msgs.NewIlMarkUp(rows...).Build()
	return u.Msgs.NewParseMarkUpMessage(s.ChatID, markUp, assets.LangText("select_plan"))
}

func (u *Users) DepositHashCommand(s *model.Situation) error {
	if s.User == nil {
		return u.StartCommand(s)
	}

	planID := u.levels.GetField(s.ChatID, "plan")
	currency := u.levels.GetField(s.ChatID, "currency")

	_, err := u.engine.SubmitDeposit(s.User.ID, planID, currency, strings.TrimSpace(s.Text))
	switch {
	case errors.Is(err, model.ErrInvalidTransactionHash):
		return u.Msgs.NewParseMessage(s.ChatID, assets.LangText("invalid_tx_hash"))
	case errors.Is(err, model.ErrUnknownPlan):
		u.levels.SetUser(s.ChatID, "main")
		return u.Msgs.NewParseMessage(s.ChatID, assets.LangText("unknown_plan"))
	case err != nil:
		return errors.Wrap(err, "submit deposit")
	}

	u.levels.SetUser(s.ChatID, "main")
	return u.Msgs.NewParseMessage(s.ChatID, assets.LangText("deposit_submitted"))
}

func (u *Users) ReferralCommand(s *model.Situation) error {
	if s.User == nil {
		return u.StartCommand(s)
	}

	link := u.config.BotLink + "?start=" + s.User.ID
	text := assets.LangText("referral_text",
		link,
		model.FormatHashRate(u.catalog.Settings().ReferralBonusHashRate),
		s.User.ReferralCount)

	return u.Msgs.NewParseMessage(s.ChatID, text)
}
