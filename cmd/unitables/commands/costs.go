package commands

import "github.com/spf13/cobra"

var (
	costsOutput outputFlags
	costsWhich  string
)

func init() {
	costsOutput.register(costsCmd, "fees")
	costsCmd.Flags().StringVar(&costsWhich, "which", "fees", "The table to read: fees or living.")
	rootCmd.AddCommand(costsCmd)
}

var costsCmd = &cobra.Command{
	Use:   "costs [--which fees|living]",
	Short: "Prints the tuition fees or living costs table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := scraper.Costs(cmd.Context(), costsWhich, costsOutput.url)
		if err != nil {
			return err
		}
		return costsOutput.render(table)
	},
}
