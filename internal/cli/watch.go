package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// watchable is satisfied by nodes that can signal source changes.
type watchable interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// RunWatch runs every node once and then re-runs a node whenever its source
// document changes on disk. It blocks until ctx is cancelled.
func RunWatch(ctx context.Context, configPath string, logger *slog.Logger, out io.Writer) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	rt, err := NewRuntime(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	// Initial pass. A failing node stays registered: a later edit to its
	// source can fix it, so the watcher keeps going.
	if _, err := rt.Host.RunAll(ctx); err != nil {
		logger.Warn("initial run incomplete", "err", err)
	}

	watching := 0
	for _, name := range rt.Host.Names() {
		node, _ := rt.Host.Get(name)
		w, ok := node.(watchable)
		if !ok {
			logger.Warn("node does not support watching", "node", name)
			continue
		}
		events, err := w.Watch(ctx)
		if err != nil {
			logger.Warn("watch unavailable", "node", name, "err", err)
			continue
		}
		watching++
		go rt.watchLoop(ctx, name, events, logger, out)
	}

	if watching == 0 {
		return fmt.Errorf("no watchable nodes configured")
	}

	fmt.Fprintf(out, "watching %d node(s), press Ctrl+C to stop\n", watching)
	<-ctx.Done()
	return nil
}

func (rt *Runtime) watchLoop(ctx context.Context, name string, events <-chan string, logger *slog.Logger, out io.Writer) {
	for {
		select {
		case <-ctx.Done():
			return
		case source, ok := <-events:
			if !ok {
				return
			}
			logger.Info("change detected", "node", name, "source", source)
			outcome, err := rt.Host.Run(ctx, name)
			if err != nil {
				logger.Error("reload failed", "node", name, "err", err)
				continue
			}
			fmt.Fprintf(out, "%s: %s (created %d, updated %d, deleted %d)\n",
				name, outcome.Status,
				len(outcome.Created), len(outcome.Updated), len(outcome.Deleted))
		}
	}
}
