package main

import (
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mbndr/figlet4go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/roylee0704/gron"

	"github.com/zecpool/cloud-miner/assets"
	"github.com/zecpool/cloud-miner/cfg"
	"github.com/zecpool/cloud-miner/db"
	"github.com/zecpool/cloud-miner/log"
	"github.com/zecpool/cloud-miner/mining"
	"github.com/zecpool/cloud-miner/model"
	"github.com/zecpool/cloud-miner/msgs"
	"github.com/zecpool/cloud-miner/services"
	"github.com/zecpool/cloud-miner/services/administrator"
	"github.com/zecpool/cloud-miner/services/auth"
	"github.com/zecpool/cloud-miner/utils"
)

const (
	accrualSweepPeriod = 10 * time.Minute
	updateWorkers      = 50
)

func main() {
	printBanner()

	logger := log.NewDefaultLogger()

	config, err := cfg.Load(cfg.DefaultPath)
	if err != nil {
		logger.Fatal("load config: %s", err.Error())
	}

	ledger := openLedger(config, logger)

	settings, err := assets.Load(config.AssetsDir)
	if err != nil {
		logger.Fatal("load settings: %s", err.Error())
	}

	engine := mining.NewEngine(ledger, settings, logger)
	authSrv := auth.NewAuth(engine, ledger, settings, logger)
	adminSrv := administrator.NewAdmin(engine, ledger, settings, logger)

	bot, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		logger.Fatal("start bot: %s", err.Error())
	}

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	updates := bot.GetUpdatesChan(updateCfg)

	levels := db.StartRedis(config.RedisAddr)
	msgsSrv := msgs.NewService(bot, config.DevChatID, logger)

	userSrv := services.NewUsers(config, bot, updates,
		engine, authSrv, adminSrv, settings, levels, msgsSrv, logger)

	startAccrualSweep(engine)
	startMetricsHandler(config.MetricsAddr, logger)

	logger.Info("bot %s started", config.BotLink)

	sortCentre := utils.NewSpreader(updateWorkers)
	userSrv.ActionsWithUpdates(sortCentre)
}

// openLedger picks MySQL when credentials are configured and falls back
// to the in-memory ledger for local runs.
func openLedger(config *cfg.Config, logger log.Logger) model.Ledger {
	if config.DBUser == "" {
		logger.Warn("no database configured, using in-memory ledger")
		return db.NewMemoryLedger()
	}

	dataBase, err := db.UploadDataBase(config)
	if err != nil {
		logger.Fatal("upload database: %s", err.Error())
	}
	return db.NewUserStore(dataBase)
}

// startAccrualSweep keeps stored balances fresh; correctness does not
// depend on it because accrual is recomputed lazily on read.
func startAccrualSweep(engine *mining.Engine) {
	c := gron.New()
	c.AddFunc(gron.Every(accrualSweepPeriod), engine.SweepAccruals)
	c.Start()
}

func startMetricsHandler(addr string, logger log.Logger) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(addr, nil); err != nil {
			logger.Warn("metrics endpoint: %s", err.Error())
		}
	}()
}

func printBanner() {
	render := figlet4go.NewAsciiRender()
	banner, err := render.Render("ZEC  Cloud")
	if err == nil {
		fmt.Print(banner)
	}
}
