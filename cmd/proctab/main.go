//go:build linux

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/ja7ad/proctab/pkg/proctab"
	"github.com/ja7ad/proctab/pkg/snapshot"
	"github.com/ja7ad/proctab/pkg/system/proc"
	"github.com/ja7ad/proctab/pkg/users"
)

func main() {
	if err := newRootCmd(run).Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCmd(runFn func(context.Context, config) error) *cobra.Command {
	v := newViper()

	root := &cobra.Command{
		Use:   "proctab",
		Short: "Per-cycle process table",
		Long: `proctab keeps a table of every process on the host and refreshes it once
per interval: new PIDs are added, volatile metrics (CPU%, MEM%, state, time)
are recomputed, and PIDs that disappeared are pruned after the cycle.

Snapshots come from /proc, or from a YAML fixture replay with --fixture.
Every flag can also be set in a YAML file (--config) or as PROCTAB_<FLAG>
in the environment, e.g. PROCTAB_HIDE_KERNEL_THREADS=true.

Examples:
  proctab --cycles 1
  proctab -i 2s --hide-kernel-threads --update-process-names
  proctab --fixture pkg/snapshot/testdata/two_cycles.yaml --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			return runFn(cmd.Context(), cfg)
		},
	}

	f := root.Flags()
	f.String("config", "", "YAML config file")
	f.IntP("cycles", "n", 0, "number of refresh cycles (0 = until Ctrl-C, or until a fixture runs out)")
	f.DurationP("interval", "i", time.Second, "refresh interval (e.g. 1s, 500ms)")
	f.String("fixture", "", "replay snapshots from a YAML fixture instead of /proc")
	f.String("procfs", "/proc", "procfs mount point")
	f.Bool("threads", true, "read per-thread states to classify active processes")
	f.String("format", formatTable, "output format: table or json")
	f.Bool("all", false, "print hidden records too")
	f.IntSlice("pid", nil, "only show these PIDs (repeatable)")

	f.Bool("hide-kernel-threads", false, "hide kernel threads")
	f.Bool("hide-userland-threads", false, "hide non-leader threads of user processes")
	f.Bool("update-process-names", false, "re-read command lines of known processes every cycle")
	f.Bool("clamp-mem", false, "cap MEM% at 100")
	f.Int("max-argv-bytes", 0, "longest command line to join (0 = unbounded)")

	f.String("log-level", "info", "log level: debug, info, warn, error")
	f.String("log-format", logText, "log format: text or json")
	f.String("log-file", "", "write logs to a rotated file instead of stderr")
	return root
}

func run(ctx context.Context, cfg config) error {
	log, closer, err := newLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogFile, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.SetDefault(log)

	src, err := openSource(cfg, log)
	if err != nil {
		return err
	}
	tbl, err := proctab.New(src, users.New(0), cfg.PIDs, uint32(unix.Getuid()), proctab.Options{
		HideKernelThreads:   cfg.HideKernelThreads,
		HideUserlandThreads: cfg.HideUserlandThreads,
		UpdateProcessNames:  cfg.UpdateProcessNames,
		ClampMemPercent:     cfg.ClampMem,
		MaxArgvBytes:        cfg.MaxArgvBytes,
		Logger:              log,
	})
	if err != nil {
		_ = src.Close()
		return err
	}
	defer tbl.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redraw := cfg.Format == formatTable && cfg.Cycles != 1 && term.IsTerminal(int(os.Stdout.Fd()))
	return loop(ctx, cfg, tbl, os.Stdout, redraw, log)
}

func openSource(cfg config, log *slog.Logger) (snapshot.Source, error) {
	if cfg.Fixture != "" {
		fx, err := snapshot.LoadFixture(cfg.Fixture)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", proctab.ErrOpen, err)
		}
		log.Info("replaying fixture", "path", cfg.Fixture, "cycles", fx.Cycles())
		return fx, nil
	}
	src, err := proc.NewSource(proc.Config{MountPoint: cfg.Procfs, Threads: cfg.Threads, Logger: log})
	if err != nil {
		return nil, err
	}
	return src, nil
}

// loop drives the table: one Scan per tick, then a render.
func loop(ctx context.Context, cfg config, tbl *proctab.Table, w io.Writer, redraw bool, log *slog.Logger) error {
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for n := 1; cfg.Cycles == 0 || n <= cfg.Cycles; n++ {
		if n > 1 {
			select {
			case <-ctx.Done():
				log.Info("interrupted")
				return nil
			case <-ticker.C:
			}
		}

		pruned, err := tbl.Scan()
		if errors.Is(err, snapshot.ErrExhausted) {
			log.Info("fixture replay finished", "cycles", n-1)
			return nil
		}
		if err != nil {
			return err
		}
		log.Debug("cycle done", "cycle", n, "tracked", tbl.Len(), "pruned", pruned)

		if redraw {
			fmt.Fprint(w, "\033[H\033[2J")
		}
		if err := render(w, cfg, n, tbl); err != nil {
			return err
		}
	}
	return nil
}
