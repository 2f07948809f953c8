package cli

import (
	"fmt"

	"github.com/alexanderramin/whittle/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSolversCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "solvers",
		Short: "List available solver plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, registry, err := loadSettings(cmd, app)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSolverList(registry.IDs(), registry.DisplayName))
			return nil
		},
	}
}
