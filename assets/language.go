package assets

import "fmt"

// Bot texts. Single language for now; keyed so more can be added the
// same way the settings files are.
var texts = map[string]string{
	"start_text":                 "Welcome to ZEC Cloud Mining!\nSend your ZEC address to log in or register.",
	"select_currency":            "Choose a payment currency:",
	"main_select_menu":           "Choose an action:",
	"profile_text":               "Address: %s\nBalance: %.6f ZEC\nHash rate: %s\nActive plans: %d\nReferrals: %d",
	"referral_text":              "Invite friends and earn extra hash rate!\nYour link: %s\nBonus per referral: %s\nReferrals so far: %d",
	"req_withdrawal_amount":      "Enter the amount of ZEC to withdraw (minimum %.6f):",
	"incorrect_amount":           "That doesn't look like an amount. Try again.",
	"lack_of_funds":              "Insufficient balance for this withdrawal.",
	"minimum_amount_not_reached": "Minimum withdrawal is %.6f ZEC.",
	"withdrawal_submitted":       "Withdrawal request for %.6f ZEC submitted. It will be processed by the operator.",
	"select_plan":                "Select a plan to purchase:",
	"plan_instructions":          "Plan %s costs %.6f ZEC.\nSend the equivalent in %s to:\n%s\n\nThen reply with the transaction hash.",
	"invalid_tx_hash":            "Please enter a valid transaction hash.",
	"deposit_submitted":          "Payment submitted! Your plan activates after the operator confirms the transaction.",
	"unknown_plan":               "That plan is no longer available.",
	"no_pending":                 "No pending transactions.",
	"settled_ok":                 "Transaction %s: %s",
	"already_settled":            "Transaction already settled.",
	"manual_withdraw_usage":      "Usage: /manual_withdraw <address> <amount>",
	"manual_withdraw_done":       "Deducted %.6f ZEC from %s and marked as paid.",
	"user_level_not_defined":     "Command not recognized. Back to the main menu.",

	"main_profile_button":  "💼 Profile",
	"main_withdraw_button": "💸 Withdraw",
	"main_plans_button":    "⚡ Buy hash rate",
	"main_referral_button": "👥 Invite friends",
	"back_to_main_button":  "⬅ Main menu",
	"approve_button":       "✅ Approve",
	"reject_button":        "❌ Reject",
}

// commandByButton reverses the main-menu button labels back to their
// handler commands.
var commandByButton = map[string]string{
	texts["main_profile_button"]:  "/main_profile",
	texts["main_withdraw_button"]: "/main_withdraw",
	texts["main_plans_button"]:    "/main_plans",
	texts["main_referral_button"]: "/main_referral",
	texts["back_to_main_button"]:  "/main_menu",
}

// CommandFromText maps a menu button label to its command, or "".
func CommandFromText(text string) string {
	return commandByButton[text]
}

// LangText renders a text template by key.
func LangText(key string, args ...interface{}) string {
	text, ok := texts[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}
