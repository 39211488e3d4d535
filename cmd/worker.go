package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/emrgen/happix/internal/job"
	"github.com/emrgen/happix/internal/jobs"
	"github.com/emrgen/happix/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

func init() {
	rootCmd.AddCommand(workerCmd())
}

func workerCmd() *cobra.Command {
	var components []string
	var interval time.Duration

	command := &cobra.Command{
		Use:     "worker",
		Short:   "run periodic source refreshes and keep resource stats current",
		Example: "happix worker -r <resource-id>=./checkout -r <resource-id>=./other",
		Run: func(cmd *cobra.Command, args []string) {
			parsed, err := parseComponents(components)
			if err != nil {
				logrus.Error(err)
				return
			}

			a, err := newApp()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer a.Close()

			var executor *jobs.TaskExecutor
			if len(parsed) > 0 {
				executor = jobs.NewTaskExecutor(jobs.NewRefreshTask(a.cfg.RefreshSchedule, a.sources, parsed...))
				if err := executor.Run(); err != nil {
					logrus.Error(err)
					return
				}
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			updater := job.NewStatsUpdater(a.queue, a.aggregate, interval)
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := updater.Run(ctx); err != nil {
					logrus.Errorf("stats updater stopped: %v", err)
				}
			}()

			logrus.Infof("Press Ctrl+C to stop the worker")

			// listen for interrupt signal to gracefully shut down the worker
			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
			<-sigs
			// clean Ctrl+C output
			fmt.Println()

			if executor != nil {
				executor.Stop()
			}
			updater.Stop()
			wg.Wait()
		},
	}

	command.Flags().StringArrayVarP(&components, "resource", "r", nil, "component to refresh as <resource-id>=<dir>")
	command.Flags().DurationVar(&interval, "stats-interval", 5*time.Second, "how often merged resources get their stats recomputed")

	return command
}

func parseComponents(values []string) ([]service.Component, error) {
	components := make([]service.Component, 0, len(values))
	for _, value := range values {
		resourceID, dir, ok := strings.Cut(value, "=")
		if !ok || resourceID == "" || dir == "" {
			return nil, fmt.Errorf("invalid component %q, expected <resource-id>=<dir>", value)
		}
		components = append(components, service.Component{ResourceID: resourceID, Dir: dir})
	}

	return components, nil
}
