package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "uploaded file commands",
}

func init() {
	rootCmd.AddCommand(fileCmd)
	fileCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	fileCmd.AddCommand(addFileCmd())
	fileCmd.AddCommand(mergeFileCmd())
}

func addFileCmd() *cobra.Command {
	var path string
	var language string
	var user string

	command := &cobra.Command{
		Use:     "add",
		Short:   "copy a translation file into the scratch directory",
		Example: "happix file add -f po/fr.po -l fr",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"file"}) {
				return
			}

			a, err := newApp()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer a.Close()

			f, err := os.Open(path)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer f.Close()

			var userID *string
			if user != "" {
				userID = &user
			}

			file, err := a.files.AddFile(context.Background(), filepath.Base(path), f, language, userID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Name", "Mime Type", "Language", "Strings"})
			table.Append([]string{file.ID, file.Name, file.MimeType, file.LanguageCode, strconv.Itoa(file.TotalStrings)})
			table.Render()

			if !file.Translatable() {
				color.Yellow("no translatable strings found in %s", file.Name)
			}
		},
	}

	command.Flags().StringVarP(&path, "file", "f", "", "path of the file (required)")
	command.Flags().StringVarP(&language, "language", "l", "", "language of the file, read from the file when empty")
	command.Flags().StringVarP(&user, "user", "u", "", "uploading user")

	return command
}

func mergeFileCmd() *cobra.Command {
	var fileID string
	var resourceID string

	var required = []string{"file-id", "resource-id"}

	command := &cobra.Command{
		Use:     "merge",
		Short:   "merge an uploaded file into a resource",
		Example: "happix file merge --file-id <file-id> -r <resource-id>",
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

			ctx := context.Background()
			file, err := a.files.GetFile(ctx, fileID)
			if err != nil {
				logrus.Error(err)
				return
			}

			added, updated, err := a.merge.MergeFromFile(ctx, file, resourceID)
			if err != nil {
				logrus.Error(err)
				return
			}

			if err := a.files.Bind(ctx, file); err != nil {
				logrus.Error(err)
				return
			}

			printMergeResult(added, updated)
		},
	}

	command.Flags().StringVar(&fileID, "file-id", "", "uploaded file id (required)")
	command.Flags().StringVarP(&resourceID, "resource-id", "r", "", "resource id (required)")

	return command
}

func printMergeResult(added, updated int) {
	color.Green("merge done")
	printField("Added", strconv.Itoa(added))
	printField("Updated", strconv.Itoa(updated))
}
