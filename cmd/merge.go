package cmd

import (
	"context"

	"github.com/emrgen/happix/internal/parser"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(mergeCmd())
}

func mergeCmd() *cobra.Command {
	var path string
	var resourceID string
	var language string
	var user string
	var keep bool

	var required = []string{"file", "resource-id"}

	command := &cobra.Command{
		Use:     "merge",
		Short:   "merge a translation file into a resource without uploading it",
		Example: "happix merge -f po/de.po -r <resource-id> -l de --keep",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			p, ok := parser.Default().ForFilename(path)
			if !ok {
				color.Red("unknown file format: %s", path)
				return
			}

			set, err := parser.ParseFile(p, path)
			if err != nil {
				logrus.Error(err)
				return
			}
			if language == "" {
				language = set.TargetLanguage
			}

			a, err := newApp()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer a.Close()

			var userID *string
			if user != "" {
				userID = &user
			}

			added, updated, err := a.merge.MergeStringset(context.Background(), set, resourceID, language, userID, !keep)
			if err != nil {
				logrus.Error(err)
				return
			}

			printMergeResult(added, updated)
		},
	}

	command.Flags().StringVarP(&path, "file", "f", "", "translation file (required)")
	command.Flags().StringVarP(&resourceID, "resource-id", "r", "", "resource id (required)")
	command.Flags().StringVarP(&language, "language", "l", "", "target language, read from the file when empty")
	command.Flags().StringVarP(&user, "user", "u", "", "committing user")
	command.Flags().BoolVar(&keep, "keep", false, "keep existing translations instead of overwriting them")

	return command
}
