// Package app owns the application lifecycle: logging, configuration, the
// inventory store, the event bus and the snapshot scheduler.
package app

import (
	"os"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/openpoint/stockpos/config"
	"github.com/openpoint/stockpos/internal/domain"
	"github.com/openpoint/stockpos/internal/store"
)

// Application is the container wiring the configuration, the store, the event
// bus and background jobs. Opened at startup, released at shutdown.
type Application struct {
	appConfig *config.AppConfig
	store     *store.Store
	bus       EventBus.Bus
	sched     *cron.Cron
}

// Ensure Application implements all interfaces
var (
	_ StoreProvider     = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ BusProvider       = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Store() *store.Store {
	return a.store
}

func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Init brings the application up: logger, workdir, id node, store, bus and
// the snapshot job. It panics only on unusable logging configuration, the
// rest returns errors.
func (a *Application) Init() error {
	cfg := a.appConfig

	initLogger(cfg)

	if err := os.MkdirAll(cfg.System.Workdir, 0755); err != nil {
		return err
	}

	if err := domain.SetIDNode(1); err != nil {
		zap.S().Warnf("snowflake node init failed, using fallback: %v", err)
	}

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return err
	}
	a.store = st
	zap.S().Infof("inventory store opened: %s", cfg.DBPath())

	a.bus = EventBus.New()

	a.sched = cron.New()
	a.initJobs()
	a.sched.Start()

	return nil
}

func initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// Release releases application resources.
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			zap.S().Errorf("store close failed: %v", err)
		}
	}
	_ = zap.L().Sync()
}
