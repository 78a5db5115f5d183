package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/soundpack/internal/linkcheck"
)

var checkCmd = &cobra.Command{
	Use:   "check URL...",
	Short: "Report whether links can be added to the pack",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		checker := linkcheck.NewDefaultChecker()

		unsupported := 0
		for _, link := range args {
			verdict := "supported"
			if !checker.Supported(link) {
				verdict = "unsupported"
				unsupported++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", verdict, link)
		}

		if unsupported > 0 {
			return fmt.Errorf("%d of %d links are not supported", unsupported, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
