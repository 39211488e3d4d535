package cmd

import (
	"context"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var resourceCmd = &cobra.Command{
	Use:   "resource",
	Short: "resource commands",
}

func init() {
	rootCmd.AddCommand(resourceCmd)
	resourceCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	resourceCmd.AddCommand(createResourceCmd())
	resourceCmd.AddCommand(listResourceCmd())
	resourceCmd.AddCommand(resetResourceCmd())
	resourceCmd.AddCommand(resourceStatsCmd())
}

func createResourceCmd() *cobra.Command {
	var projectID string
	var name string
	var slug string
	var sourceLanguage string

	var required = []string{"project-id", "name"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a resource",
		Example: "happix resource create -p <project-id> -n <name> -s <slug> -l en",
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

			resource, err := a.resources.CreateResource(context.Background(), projectID, name, slug, sourceLanguage)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Name", "Slug", "Source"})
			table.Append([]string{resource.ID, resource.Name, resource.Slug, resource.SourceLanguage})
			table.Render()
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")
	command.Flags().StringVarP(&name, "name", "n", "", "resource name (required)")
	command.Flags().StringVarP(&slug, "slug", "s", "", "resource slug, derived from the name when empty")
	command.Flags().StringVarP(&sourceLanguage, "source-language", "l", "en", "source language")

	return command
}

func listResourceCmd() *cobra.Command {
	var projectID string

	command := &cobra.Command{
		Use:   "list",
		Short: "list the resources of a project",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"project-id"}) {
				return
			}

			a, err := newApp()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer a.Close()

			resources, err := a.resources.ListResources(context.Background(), projectID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Name", "Slug", "Source", "Created"})
			for _, resource := range resources {
				table.Append([]string{resource.ID, resource.Name, resource.Slug, resource.SourceLanguage, resource.CreatedAt.Format("2006-01-02 15:04")})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&projectID, "project-id", "p", "", "project id (required)")

	return command
}

func resetResourceCmd() *cobra.Command {
	var resourceID string

	command := &cobra.Command{
		Use:   "reset",
		Short: "delete every string and translation of a resource",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"resource-id"}) {
				return
			}

			a, err := newApp()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer a.Close()

			if err := a.resources.ResetResource(context.Background(), resourceID); err != nil {
				logrus.Error(err)
				return
			}
			color.Green("resource %s reset", resourceID)
		},
	}

	command.Flags().StringVarP(&resourceID, "resource-id", "r", "", "resource id (required)")

	return command
}

func resourceStatsCmd() *cobra.Command {
	var resourceID string
	var language string

	command := &cobra.Command{
		Use:   "stats",
		Short: "show translation statistics of a resource",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, []string{"resource-id"}) {
				return
			}

			a, err := newApp()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer a.Close()

			ctx := context.Background()
			languages := []string{language}
			if language == "" {
				if languages, err = a.aggregate.AvailableLanguages(ctx, resourceID); err != nil {
					logrus.Error(err)
					return
				}
			}

			words, err := a.aggregate.WordCount(ctx, resourceID)
			if err != nil {
				logrus.Error(err)
				return
			}
			total, err := a.aggregate.TotalEntities(ctx, resourceID)
			if err != nil {
				logrus.Error(err)
				return
			}
			printField("Entities", strconv.Itoa(total))
			printField("Words", strconv.Itoa(words))
			if committer, err := a.aggregate.LastCommitter(ctx, resourceID); err == nil && committer != nil {
				printField("Last committer", *committer)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Language", "Translated", "Untranslated", "Percent"})
			for _, lang := range languages {
				stat, err := a.aggregate.Stats(ctx, resourceID, lang)
				if err != nil {
					logrus.Error(err)
					return
				}

				table.Append([]string{
					stat.LanguageCode,
					strconv.Itoa(stat.Translated),
					strconv.Itoa(stat.Untranslated),
					strconv.Itoa(stat.Percent) + "%",
				})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&resourceID, "resource-id", "r", "", "resource id (required)")
	command.Flags().StringVarP(&language, "language", "l", "", "only this language")

	return command
}
