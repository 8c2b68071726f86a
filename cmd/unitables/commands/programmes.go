package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var programmesOutput outputFlags

func init() {
	programmesOutput.register(programmesCmd, "programme catalog")
	rootCmd.AddCommand(programmesCmd)
}

var programmesCmd = &cobra.Command{
	Use:   "programmes",
	Short: "Prints the degree programme catalog, followed by the entries that could not be read.",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := scraper.Programmes(cmd.Context(), programmesOutput.url)
		if err != nil {
			return err
		}
		err = programmesOutput.render(result.Table)
		if err != nil {
			return err
		}

		if len(result.Failures) > 0 {
			fmt.Fprintf(os.Stderr, "\n%d entries skipped:\n", len(result.Failures))
			for _, failure := range result.Failures {
				fmt.Fprintf(os.Stderr, "  %s\n", failure.Error())
			}
		}
		return nil
	},
}
