package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// RunOnce loads a configuration, runs every node once and prints a per-node
// summary to out. The runtime is torn down before returning.
func RunOnce(ctx context.Context, configPath string, logger *slog.Logger, out io.Writer) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	rt, err := NewRuntime(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	outcomes, runErr := rt.Host.RunAll(ctx)
	for _, name := range rt.Host.Names() {
		outcome, ok := outcomes[name]
		if !ok {
			continue
		}
		fmt.Fprintf(out, "%s: %s (created %d, updated %d, deleted %d)\n",
			name, outcome.Status,
			len(outcome.Created), len(outcome.Updated), len(outcome.Deleted))
	}
	return runErr
}
