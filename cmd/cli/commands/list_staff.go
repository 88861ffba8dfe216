package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ListStaffCmd creates the listStaff command
func ListStaffCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listStaff",
		Short: "List the staff roster from the configured spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Cfg.StaffSheetID == "" || app.Cfg.StaffTab == "" {
				return fmt.Errorf("staffSheetID and staffTab must be configured")
			}

			client, err := app.Sheets()
			if err != nil {
				return err
			}

			staff, err := client.ListStaff(app.Cfg)
			if err != nil {
				return err
			}

			fmt.Printf("%d staff members:\n\n", len(staff))
			for _, s := range staff {
				line := fmt.Sprintf("  %-8s %-24s", s.ID, s.Name)
				if len(s.Tags) > 0 {
					line += " [" + strings.Join(s.Tags, ", ") + "]"
				}
				if s.MaxShifts > 0 {
					line += fmt.Sprintf(" max %d", s.MaxShifts)
				}
				if len(s.OffDates) > 0 {
					line += fmt.Sprintf(" off %s", strings.Join(s.OffDates, ", "))
				}
				fmt.Println(line)
			}

			return nil
		},
	}
}
