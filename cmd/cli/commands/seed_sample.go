package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shiftguard/shiftguard/pkg/workbook"
)

// SeedSampleCmd creates the seedSample command
func SeedSampleCmd(app *AppContext) *cobra.Command {
	var (
		outputPath string
		rulesOut   string
		month      string
	)

	cmd := &cobra.Command{
		Use:   "seedSample",
		Short: "Write a sample input workbook and rules file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := workbook.WriteSampleInput(outputPath, month); err != nil {
				return err
			}
			fmt.Printf("Sample input written to %s (month %s)\n", outputPath, month)

			if rulesOut != "" {
				if err := workbook.WriteSampleRules(rulesOut); err != nil {
					return err
				}
				fmt.Printf("Sample rules written to %s\n", rulesOut)
			}

			fmt.Printf("\nNext step:\n  cli generate --input %s --output schedule\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "sample_input.yaml", "Output file name")
	cmd.Flags().StringVar(&rulesOut, "rules-out", "", "Also write a sample rules file to this path")
	cmd.Flags().StringVarP(&month, "month", "m", "2026-02", "Target month (YYYY-MM)")

	return cmd
}
