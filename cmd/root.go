package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "happix",
	Short: "translation catalog and stringset merge tool",
	Example: `happix db migrate
happix resource create -p <project-id> -n <name> -l en
happix file add -f po/fr.po
happix file merge --file-id <file-id> -r <resource-id>
happix merge -f po/de.po -r <resource-id> -l de
happix refresh -r <resource-id> -d <checkout-dir>
happix resource stats -r <resource-id>
happix worker -r <resource-id>=<checkout-dir>`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(dbCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
