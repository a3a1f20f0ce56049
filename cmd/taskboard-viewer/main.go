// Command taskboard-viewer follows a board server headlessly: it migrates
// any legacy local cache, fetches the baseline, folds the cached snapshot
// back in, then tracks every broadcast until interrupted.
package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dkuiper/taskboard/internal/client"
	"github.com/dkuiper/taskboard/internal/config"
	"github.com/dkuiper/taskboard/internal/domain"
	"github.com/dkuiper/taskboard/internal/localcache"
	"github.com/dkuiper/taskboard/internal/logging"
	"github.com/dkuiper/taskboard/internal/reconcile"
)

func main() {
	cfg := config.LoadViewer()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache, err := localcache.Open(cfg.CacheDir)
	if err != nil {
		logger.Error("failed to open local cache", "error", err)
		return
	}

	c := client.New(cfg.APIBaseURL)

	// One-time replay of a cache written before the backend existed.
	if _, err := reconcile.NewMigrator(c, cache, logger).Run(ctx); err != nil {
		logger.Error("legacy cache migration failed", "error", err)
		return
	}

	jobs, err := c.ListJobs(ctx)
	if err != nil {
		logger.Error("failed to fetch baseline", "error", err)
		return
	}
	jobs = mergeSnapshot(jobs, cache, cfg, logger)

	state := reconcile.NewAppState(jobs)
	saveSnapshot(cache, state, logger)

	sub, err := c.Subscribe(ctx)
	if err != nil {
		logger.Error("failed to subscribe", "error", err)
		return
	}
	defer sub.Close()

	logger.Info("following board", "api", cfg.APIBaseURL, "jobs", len(state.Jobs()))
	for ev := range sub.Events() {
		state.Apply(ev)
		saveSnapshot(cache, state, logger)
		logger.Info("board updated", "event", ev.Name, "jobs", len(state.Jobs()))
	}
}

// mergeSnapshot folds the previous session's snapshot into the baseline,
// honoring the configured overrides. A missing or unreadable snapshot just
// means a clean start.
func mergeSnapshot(jobs []*domain.Job, cache *localcache.Cache, cfg *config.ViewerConfig, logger *slog.Logger) []*domain.Job {
	raw, err := cache.Get(localcache.SnapshotKey)
	if err != nil || raw == nil {
		return jobs
	}
	var cached []*domain.Job
	if err := json.Unmarshal(raw, &cached); err != nil {
		logger.Warn("discarding unreadable snapshot", "error", err)
		return jobs
	}
	return reconcile.MergeLocal(jobs, cached, reconcile.MergeOptions{
		LocalStatus: cfg.MergeLocalStatus,
		LocalPhotos: cfg.MergeLocalPhotos,
		LocalNotes:  cfg.MergeLocalNotes,
	})
}

func saveSnapshot(cache *localcache.Cache, state *reconcile.AppState, logger *slog.Logger) {
	data, err := json.Marshal(state.Jobs())
	if err != nil {
		logger.Warn("failed to serialize snapshot", "error", err)
		return
	}
	if err := cache.Put(localcache.SnapshotKey, data); err != nil {
		logger.Warn("failed to persist snapshot", "error", err)
	}
}
