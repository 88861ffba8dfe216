package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shiftguard/shiftguard/pkg/clients/sheetsclient"
	"github.com/shiftguard/shiftguard/pkg/workbook"
)

// PublishCmd creates the publish command
func PublishCmd(app *AppContext) *cobra.Command {
	var (
		inputPath    string
		schedulePath string
		tabTitle     string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a schedule CSV to the configured spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Cfg.RotaSheetID == "" {
				return fmt.Errorf("rotaSheetID must be configured")
			}

			in, err := workbook.Load(inputPath)
			if err != nil {
				return err
			}

			sched, err := workbook.ReadScheduleCSV(schedulePath)
			if err != nil {
				return err
			}

			client, err := app.Sheets()
			if err != nil {
				return err
			}

			if tabTitle == "" {
				tabTitle = "Schedule " + in.Month
			}

			rows := sheetsclient.BuildPublishedRows(sched, in.NameIndex())
			if err := client.PublishSchedule(app.Cfg.RotaSheetID, tabTitle, rows); err != nil {
				return err
			}

			fmt.Printf("Published %d rows to tab %q\n", len(rows), tabTitle)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input workbook (YAML), used for staff names and the month")
	cmd.Flags().StringVarP(&schedulePath, "schedule", "s", "", "Schedule CSV to publish")
	cmd.Flags().StringVar(&tabTitle, "tab", "", "Tab title (defaults to \"Schedule <month>\")")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("schedule")

	return cmd
}
