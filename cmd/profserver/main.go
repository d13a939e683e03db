package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/proficiency/internal/config"
	"github.com/udisondev/proficiency/internal/itemtable"
	"github.com/udisondev/proficiency/internal/proficiency"
	"github.com/udisondev/proficiency/internal/watcher"
)

const ServerConfigPath = "config/proficiency.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ServerConfigPath
	if p := os.Getenv("PROF_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	slog.Info("proficiency server starting",
		"core_directory", cfg.CoreDirectory,
		"log_level", cfg.LogLevel,
		"watch", cfg.WatchDefinitions)

	// Item table is optional: without it every lookup is a miss.
	items, err := itemtable.Load(itemtable.Path(cfg.CoreDirectory), slog.Default())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading item table: %w", err)
		}
		slog.Warn("item proficiency table not found, items have no proficiency", "path", itemtable.Path(cfg.CoreDirectory))
		items = itemtable.New(nil)
	}

	proficiency.Install(proficiency.NewRegistry(cfg.CoreDirectory, slog.Default()))
	registry := proficiency.Instance()

	// Битый файл не роняет сервер: фича просто недоступна до reload.
	if err := registry.Load(false); err != nil {
		slog.Warn("proficiencies unavailable until reload", "error", err)
	}

	slog.Info("proficiency lookup ready",
		"proficiencies", registry.Count(),
		"items", items.Len(),
		"resolved_items", countResolved(items))

	g, gctx := errgroup.WithContext(ctx)

	// SIGHUP → reload
	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hup:
				reload("sighup")
			}
		}
	})

	if cfg.WatchDefinitions {
		wcfg := watcher.DefaultConfig(registry.Path())
		if cfg.WatchDebounce > 0 {
			wcfg.DebounceDur = cfg.WatchDebounce
		}
		w, err := watcher.New(wcfg)
		if err != nil {
			return fmt.Errorf("creating definitions watcher: %w", err)
		}
		changes, err := w.Start()
		if err != nil {
			_ = w.Stop()
			return fmt.Errorf("starting definitions watcher: %w", err)
		}

		g.Go(func() error {
			defer func() {
				if err := w.Stop(); err != nil {
					slog.Warn("stopping definitions watcher", "error", err)
				}
			}()
			slog.Info("watching definitions", "path", registry.Path(), "debounce", wcfg.DebounceDur)

			for {
				select {
				case <-gctx.Done():
					return nil
				case <-changes:
					reload("file change")
				}
			}
		})
	}

	return g.Wait()
}

// reload goes through the process-wide registry, as any admin trigger would.
func reload(trigger string) {
	registry := proficiency.Instance()
	slog.Info("reloading proficiencies", "trigger", trigger)
	if err := registry.Reload(); err != nil {
		slog.Error("proficiency reload failed", "trigger", trigger, "error", err)
		return
	}
	slog.Info("proficiencies reloaded", "count", registry.Count())
}

// countResolved reports how many mapped items resolve to a loaded proficiency.
func countResolved(items *itemtable.Table) int {
	lookup := proficiency.NewLookup(proficiency.Instance(), items, slog.Default())
	resolved := 0
	for _, itemID := range items.ItemIDs() {
		if _, err := lookup.Resolve(itemID); err == nil {
			resolved++
		}
	}
	return resolved
}
