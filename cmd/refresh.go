package cmd

import (
	"context"

	"github.com/emrgen/happix/internal/service"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(refreshCmd())
}

func refreshCmd() *cobra.Command {
	var resourceID string
	var dir string

	var required = []string{"resource-id", "dir"}

	command := &cobra.Command{
		Use:     "refresh",
		Short:   "regenerate the source template of a resource and recompute its stats",
		Example: "happix refresh -r <resource-id> -d ./checkout",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			a, err := newApp()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer a.Close()

			ok, err := a.sources.RefreshSource(context.Background(), service.Component{ResourceID: resourceID, Dir: dir})
			if err != nil {
				logrus.Error(err)
				return
			}

			if ok {
				color.Green("source refreshed")
			} else {
				color.Yellow("extraction failed, stats recomputed from the previous template")
			}
		},
	}

	command.Flags().StringVarP(&resourceID, "resource-id", "r", "", "resource id (required)")
	command.Flags().StringVarP(&dir, "dir", "d", "", "working directory of the component (required)")

	return command
}
