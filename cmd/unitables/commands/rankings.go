package commands

import "github.com/spf13/cobra"

var rankingsOutput outputFlags

func init() {
	rankingsOutput.register(rankingsCmd, "rankings")
	rootCmd.AddCommand(rankingsCmd)
}

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Prints the subject rankings table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := scraper.Rankings(cmd.Context(), rankingsOutput.url)
		if err != nil {
			return err
		}
		return rankingsOutput.render(table)
	},
}
