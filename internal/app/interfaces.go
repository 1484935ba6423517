package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"

	"github.com/openpoint/stockpos/config"
	"github.com/openpoint/stockpos/internal/store"
)

// StoreProvider provides inventory store access
type StoreProvider interface {
	Store() *store.Store
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// BusProvider provides the event bus carrying scanner detections
type BusProvider interface {
	Bus() EventBus.Bus
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context.
// Components should depend on specific providers or this combined interface.
type AppContext interface {
	StoreProvider
	ConfigProvider
	BusProvider
	SchedulerProvider

	// RunSnapshotNow writes a catalog snapshot immediately, outside the
	// scheduled window.
	RunSnapshotNow() error
}
