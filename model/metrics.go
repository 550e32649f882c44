package model

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegisteredUsers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cloud_miner_registered_users_total",
		Help: "Number of registered users.",
	})

	ReferralBonuses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cloud_miner_referral_bonuses_total",
		Help: "Number of referral bonuses granted.",
	})

	AccrualFlushes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cloud_miner_accrual_flushes_total",
		Help: "Number of committed balance accruals.",
	})

	SubmittedTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloud_miner_submitted_transactions_total",
		Help: "Submitted transactions by type.",
	}, []string{"type"})

	SettledTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloud_miner_settled_transactions_total",
		Help: "Settled transactions by type and decision.",
	}, []string{"type", "decision"})

	WriteConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cloud_miner_write_conflicts_total",
		Help: "Ledger write conflicts that triggered a retry.",
	})
)
