package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saweima12/minirt/executor"
	"github.com/saweima12/minirt/future"
)

func newFanoutCmd() *cobra.Command {
	var (
		tasks int
		polls int
	)

	cmd := &cobra.Command{
		Use:   "fanout",
		Short: "Spawn N tasks that each need K polls and report the schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tasks < 1 || polls < 1 {
				return fmt.Errorf("--tasks and --polls must be at least 1")
			}
			rt, reg, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			var order []string
			for i := 0; i < tasks; i++ {
				executor.Spawn(rt, countdown(i, polls, &order), executor.Named("fanout-"+strconv.Itoa(i))).Detach()
			}
			for _, info := range rt.Tasks() {
				log.Debug("task queued", zap.String("task", info.Name), zap.String("task_id", info.ID))
			}
			if err := rt.Run(cmd.Context()); err != nil {
				return fmt.Errorf("fanout: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "order: %s\n", strings.Join(order, " "))
			printStats(out, rt)
			return printMetrics(out, reg)
		},
	}

	cmd.Flags().IntVar(&tasks, "tasks", 4, "Number of tasks to spawn")
	cmd.Flags().IntVar(&polls, "polls", 3, "Polls each task needs before it completes")
	return cmd
}

// countdown records id on every poll and completes on the n-th.
func countdown(id, n int, order *[]string) future.Future[future.Unit] {
	return future.Func[future.Unit](func(cx *future.Context) future.Poll[future.Unit] {
		*order = append(*order, strconv.Itoa(id))
		n--
		if n > 0 {
			cx.Waker().Wake()
			return future.Pending[future.Unit]()
		}
		return future.Ready(future.Unit{})
	})
}
