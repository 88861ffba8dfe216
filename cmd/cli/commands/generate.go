package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shiftguard/shiftguard/pkg/core/model"
	"github.com/shiftguard/shiftguard/pkg/core/services"
	"github.com/shiftguard/shiftguard/pkg/workbook"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	var (
		inputPath  string
		outputBase string
		rulesPath  string
		dryRun     bool
		swapIters  int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a schedule from an input workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := workbook.Load(inputPath)
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

			var store services.RunStore
			if app.Cfg.DatabaseURL != "" && !dryRun {
				db, err := app.Database()
				if err != nil {
					return err
				}
				defer db.Close()
				store = db
			}

			result, err := services.Generate(app.Ctx, app.Logger, services.GenerateParams{
				Roster:            in.Roster(),
				ShiftTypes:        in.Catalog(),
				Demand:            demand,
				RuleSet:           rs,
				SoftCostThreshold: app.Cfg.SoftCostThreshold,
				SwapIterations:    swapIters,
				Store:             store,
				DryRun:            dryRun,
			})
			if err != nil {
				return err
			}

			schedPath, warnPath, err := workbook.WriteTables(outputBase, result.Schedule, result.Warnings, in.NameIndex())
			if err != nil {
				return err
			}

			printSummary(in.Month, result)
			fmt.Printf("Schedule written to %s\n", schedPath)
			fmt.Printf("Warnings written to %s\n", warnPath)
			if result.Saved {
				fmt.Printf("Run recorded as %s\n", result.RunID)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input workbook (YAML)")
	cmd.Flags().StringVarP(&outputBase, "output", "o", "", "Output base path for CSV files")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "Rules file (defaults to config, then built-in rules)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Do not record the run in the database")
	cmd.Flags().IntVar(&swapIters, "swap-iterations", 0, "Override the improvement pass budget")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}

// printSummary prints severity counts and the worst findings
func printSummary(month string, result *services.GenerateResult) {
	counts := make(map[model.Severity]int)
	for _, w := range result.Warnings {
		counts[w.Severity]++
	}

	fmt.Printf("\nSchedule for %s: %d assignments, soft cost %.3f\n",
		month, len(result.Schedule.Assignments), result.SoftCost)
	fmt.Printf("Warnings: %d critical, %d notice, %d info\n",
		counts[model.SeverityCritical], counts[model.SeverityNotice], counts[model.SeverityInfo])

	shown := 0
	for _, w := range result.Warnings {
		if w.Severity != model.SeverityCritical {
			continue
		}
		if shown == 0 {
			fmt.Println("\nCritical findings:")
		}
		fmt.Printf("  - %s\n", w.Message)
		shown++
		if shown == 5 {
			remaining := counts[model.SeverityCritical] - shown
			if remaining > 0 {
				fmt.Printf("  ... and %d more\n", remaining)
			}
			break
		}
	}
	fmt.Println()
}
