package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var faqOutput outputFlags

func init() {
	faqOutput.register(faqCmd, "housing")
	rootCmd.AddCommand(faqCmd)
}

var faqCmd = &cobra.Command{
	Use:   "faq",
	Short: "Prints the housing FAQ.",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := scraper.FAQ(cmd.Context(), faqOutput.url)
		if err != nil {
			return err
		}
		err = faqOutput.render(result.Table)
		if err != nil {
			return err
		}

		if result.Truncated() {
			fmt.Fprintf(
				os.Stderr,
				"\nfound %d questions and %d answers, only the first %d are paired\n",
				result.Questions, result.Answers, result.Table.Len(),
			)
		}
		return nil
	},
}
