package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded schedule generation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := app.Database()
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.ListRuns(app.Ctx, limit)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}

			fmt.Printf("%-36s  %-20s  %-23s  %10s  %9s  %8s\n",
				"RUN", "CREATED", "HORIZON", "ASSIGNED", "WARNINGS", "CRITICAL")
			for _, run := range runs {
				fmt.Printf("%-36s  %-20s  %s - %s  %10d  %9d  %8d\n",
					run.ID,
					run.CreatedAt.Format("2006-01-02 15:04:05"),
					run.HorizonStart, run.HorizonEnd,
					run.Assignments, run.Warnings, run.CriticalCount)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")

	return cmd
}
