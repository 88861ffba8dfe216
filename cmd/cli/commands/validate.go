package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shiftguard/shiftguard/pkg/core/services"
	"github.com/shiftguard/shiftguard/pkg/workbook"
)

// ValidateCmd creates the validate command
func ValidateCmd(app *AppContext) *cobra.Command {
	var (
		inputPath    string
		schedulePath string
		rulesPath    string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an existing schedule against the input workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := workbook.Load(inputPath)
			if err != nil {
				return err
			}

			sched, err := workbook.ReadScheduleCSV(schedulePath)
			if err != nil {
				return err
			}

			rs, err := app.RuleSet(rulesPath)
			if err != nil {
				return err
			}

			demand, err := in.DemandSlots(app.Cfg.DemandOverrides)
			if err != nil {
				return err
			}

			warnings := services.Validate(app.Logger, sched, in.Roster(), in.Catalog(), demand, rs, app.Cfg.SoftCostThreshold)

			if len(warnings) == 0 {
				fmt.Println("Schedule is clean: no findings.")
				return nil
			}

			fmt.Printf("%d findings:\n", len(warnings))
			for _, w := range warnings {
				fmt.Printf("  [%s] %s\n", w.Severity, w.Message)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input workbook (YAML)")
	cmd.Flags().StringVarP(&schedulePath, "schedule", "s", "", "Schedule CSV to validate")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "Rules file (defaults to config, then built-in rules)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("schedule")

	return cmd
}
