package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/openpoint/stockpos/internal/portability"
)

const snapshotPrefix = "catalog-"

func (a *Application) initJobs() {
	cfg := a.appConfig
	if !cfg.Snapshot.Enabled {
		return
	}
	_, err := a.sched.AddFunc(cfg.Snapshot.Cron, func() {
		if err := a.RunSnapshotNow(); err != nil {
			zap.L().Error("scheduled snapshot failed", zap.Error(err))
		}
	})
	if err != nil {
		zap.L().Error("snapshot schedule rejected",
			zap.String("cron", cfg.Snapshot.Cron), zap.Error(err))
		return
	}
	zap.L().Info("snapshot job scheduled", zap.String("cron", cfg.Snapshot.Cron))
}

// RunSnapshotNow exports the catalog to the backup directory and prunes old
// snapshots down to the configured count.
func (a *Application) RunSnapshotNow() error {
	ctx := context.Background()
	products, err := a.store.ListAll(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	data, err := portability.Export(products, now)
	if err != nil {
		return err
	}

	dir := a.appConfig.BackupDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	name := fmt.Sprintf("%s%s.json", snapshotPrefix, now.Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	zap.L().Info("catalog snapshot written",
		zap.String("path", path), zap.Int("products", len(products)))

	return pruneSnapshots(dir, a.appConfig.Snapshot.Keep)
}

// pruneSnapshots removes the oldest snapshots beyond keep. Snapshot names
// embed a sortable timestamp, so lexical order is chronological.
func pruneSnapshots(dir string, keep int) error {
	if keep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && len(e.Name()) > len(snapshotPrefix) && e.Name()[:len(snapshotPrefix)] == snapshotPrefix {
			names = append(names, e.Name())
		}
	}
	if len(names) <= keep {
		return nil
	}
	sort.Strings(names)
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			zap.L().Warn("snapshot prune failed", zap.String("name", name), zap.Error(err))
		}
	}
	return nil
}
