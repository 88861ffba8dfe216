package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shiftguard/shiftguard/pkg/api"
	"github.com/shiftguard/shiftguard/pkg/core/services"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			var store services.RunStore
			if app.Cfg.DatabaseURL != "" {
				db, err := app.Database()
				if err != nil {
					return err
				}
				defer db.Close()
				store = db
			}

			handler := api.NewHandler(app.Logger, store)
			router := api.NewRouter(handler)

			app.Logger.Info("Starting HTTP API", zap.String("addr", addr))
			fmt.Printf("Listening on %s\n", addr)
			return http.ListenAndServe(addr, router)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")

	return cmd
}
