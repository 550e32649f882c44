package model

import "fmt"

type MiningPlan struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	HashRate      int64    `json:"hash_rate"` // H/s
	HashRateLabel string   `json:"hash_rate_label"`
	PriceZec      float64  `json:"price_zec"`
	DailyProfit   float64  `json:"daily_profit"`
	Features      []string `json:"features,omitempty"`
}

type GlobalSettings struct {
	ZecToUsd              float64 `json:"zec_to_usd"`
	BaseMiningRate        float64 `json:"base_mining_rate"` // ZEC per H per second
	MinWithdrawalAmount   float64 `json:"min_withdrawal_amount"`
	ReferralBonusHashRate int64   `json:"referral_bonus_hash_rate"` // H/s
	SupportEmail          string  `json:"support_email"`

	PaymentConfig PaymentConfig `json:"payment_config"`
}

// PaymentConfig is the operator's deposit address book, shown to users
// when they purchase a plan.
type PaymentConfig struct {
	BtcAddress       string `json:"btc_address"`
	LtcAddress       string `json:"ltc_address"`
	UsdtTrc20Address string `json:"usdt_trc20_address"`
	UsdtBep20Address string `json:"usdt_bep20_address"`
}

// FormatHashRate renders an H/s value with its natural unit.
func FormatHashRate(hashRate int64) string {
	switch {
	case hashRate >= TH:
		return fmt.Sprintf("%.2f TH/s", float64(hashRate)/float64(TH))
	case hashRate >= GH:
		return fmt.Sprintf("%.2f GH/s", float64(hashRate)/float64(GH))
	case hashRate >= MH:
		return fmt.Sprintf("%.2f MH/s", float64(hashRate)/float64(MH))
	case hashRate >= KH:
		return fmt.Sprintf("%.2f kH/s", float64(hashRate)/float64(KH))
	}
	return fmt.Sprintf("%d H/s", hashRate)
}

func (p *PaymentConfig) AddressFor(currency string) string {
	switch currency {
	case "BTC":
		return p.BtcAddress
	case "LTC":
		return p.LtcAddress
	case "USDT_TRC20":
		return p.UsdtTrc20Address
	case "USDT_BEP20":
		return p.UsdtBep20Address
	}
	return ""
}
