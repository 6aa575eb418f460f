package cli

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saweima12/minirt/config"
	"github.com/saweima12/minirt/executor"
	"github.com/saweima12/minirt/logger"
)

var (
	flagConfig      string
	flagDebug       bool
	flagLogLevel    string
	flagLogFormat   string
	flagMode        string
	flagMaxPasses   uint64
	flagIdleTimeout time.Duration
	flagUnit        time.Duration
	flagMetrics     bool

	cfg config.Config
	log *zap.Logger
)

// NewRootCmd creates the root cobra command for the minirt CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "minirt",
		Short: "minirt drives cooperative tasks on a single goroutine",
		Long:  "minirt runs small task graphs on a cooperative, single-threaded runtime and reports how they were scheduled.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			applyFlags(cmd, &loaded)
			if err := loaded.Validate(); err != nil {
				return err
			}
			cfg = loaded

			log, err = logger.New(cfg.LogLevel, cfg.LogFormat)
			return err
		},
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	pf.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&flagLogFormat, "log-format", "console", "Log format (console, json)")
	pf.StringVar(&flagMode, "mode", "busy", "Scheduling mode (busy, parked)")
	pf.Uint64Var(&flagMaxPasses, "max-passes", 0, "Give up after this many drain passes (0 for no limit)")
	pf.DurationVar(&flagIdleTimeout, "idle-timeout", 0, "How long a parked runtime waits with nothing runnable")
	pf.DurationVar(&flagUnit, "unit", 100*time.Millisecond, "Sleep unit used by the demo tasks")
	pf.BoolVar(&flagMetrics, "metrics", false, "Collect and print runtime metrics")

	root.AddCommand(
		newDemoCmd(),
		newFanoutCmd(),
	)

	return root
}

// applyFlags overrides c with every flag set on the command line.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	changed := cmd.Flags().Changed
	if changed("log-level") {
		c.LogLevel = flagLogLevel
	}
	if flagDebug {
		c.LogLevel = "debug"
	}
	if changed("log-format") {
		c.LogFormat = flagLogFormat
	}
	if changed("mode") {
		c.Mode = flagMode
	}
	if changed("max-passes") {
		c.MaxPasses = flagMaxPasses
	}
	if changed("idle-timeout") {
		c.IdleTimeout = flagIdleTimeout
	}
	if changed("unit") {
		c.Unit = flagUnit
	}
	if changed("metrics") {
		c.Metrics = flagMetrics
	}
}

// newRuntime builds a runtime from the loaded config. The registry is nil
// unless metrics are enabled.
func newRuntime() (*executor.Runtime, *prometheus.Registry, error) {
	var reg *prometheus.Registry
	if cfg.Metrics {
		reg = prometheus.NewRegistry()
	}
	opts, err := cfg.RuntimeOptions(log, reg)
	if err != nil {
		return nil, nil, err
	}
	return executor.New(opts...), reg, nil
}

func printStats(w io.Writer, rt *executor.Runtime) {
	s := rt.Stats()
	fmt.Fprintf(w, "mode: %s\n", rt.Mode())
	fmt.Fprintf(w, "passes: %d\n", s.Passes)
	fmt.Fprintf(w, "polls: %d\n", s.Polls)
	fmt.Fprintf(w, "completed: %d/%d\n", s.Completed, s.Spawned)
}

func printMetrics(w io.Writer, reg *prometheus.Registry) error {
	if reg == nil {
		return nil
	}
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			v := m.GetGauge().GetValue()
			if c := m.GetCounter(); c != nil {
				v = c.GetValue()
			}
			fmt.Fprintf(w, "%s %g\n", mf.GetName(), v)
		}
	}
	return nil
}
