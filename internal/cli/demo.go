package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saweima12/minirt/executor"
	"github.com/saweima12/minirt/future"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run two sleeping tasks and join their results",
		Long: `Spawns "task one", which sleeps one unit and returns 1, and "task two",
which sleeps two units and returns 2, then blocks on joining both.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, reg, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			sugar := log.Sugar()
			one := executor.Spawn(rt, sleeper(rt, sugar, "task one", 1, cfg.Unit), executor.Named("task one"))
			two := executor.Spawn(rt, sleeper(rt, sugar, "task two", 2, cfg.Unit), executor.Named("task two"))
			for _, id := range []string{one.ID(), two.ID()} {
				if info, ok := rt.Inspect(id); ok {
					sugar.Debugw("task queued", "task", info.Name, "task_id", info.ID, "state", info.State)
				}
			}

			start := time.Now()
			got, err := executor.BlockOn(cmd.Context(), rt, future.Join2[int, int](one, two))
			if err != nil {
				return fmt.Errorf("demo: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "results: %d %d\n", got.First, got.Second)
			fmt.Fprintf(out, "elapsed: %s\n", time.Since(start).Round(time.Millisecond))
			printStats(out, rt)
			return printMetrics(out, reg)
		},
	}
}

// sleeper logs, yields once, sleeps n units, logs again and returns n.
func sleeper(rt *executor.Runtime, log *zap.SugaredLogger, name string, n int, unit time.Duration) future.Future[int] {
	return future.Lazy(func() future.Future[int] {
		log.Infow("task started", "task", name)
		return future.Then(future.YieldNow(), func(future.Unit) future.Future[int] {
			sleep := rt.Sleep(time.Duration(n) * unit)
			if until, ok := sleep.Deadline(); ok {
				log.Debugw("task sleeping", "task", name, "until", until)
			}
			return future.Then(sleep, func(future.Unit) future.Future[int] {
				log.Infow("task finished", "task", name)
				return future.Value(n)
			})
		})
	})
}
