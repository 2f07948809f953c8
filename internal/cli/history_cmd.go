package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/whittle/internal/cli/formatter"
	"github.com/alexanderramin/whittle/internal/config"
	"github.com/alexanderramin/whittle/internal/db"
	"github.com/alexanderramin/whittle/internal/journal"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int
	var sessionID string

	cmd := &cobra.Command{
		Use:   "history CASE_DIR",
		Short: "Show past assistant sessions recorded for a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caseDir, err := config.ValidateCaseDir(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if _, err := os.Stat(db.CasePath(caseDir)); os.IsNotExist(err) {
				fmt.Fprintln(out, formatter.FormatHistory(nil, app.now()))
				return nil
			}
			j, err := journal.Open(caseDir, nil)
			if err != nil {
				return err
			}
			defer func() { _ = j.Close() }()

			if sessionID == "" {
				summaries, err := j.History(cmd.Context(), caseDir, limit)
				if err != nil {
					return fmt.Errorf("reading history: %w", err)
				}
				fmt.Fprintln(out, formatter.FormatHistory(summaries, app.now()))
				return nil
			}

			summaries, err := j.History(cmd.Context(), caseDir, 0)
			if err != nil {
				return fmt.Errorf("reading history: %w", err)
			}
			var matches []string
			for _, s := range summaries {
				if strings.HasPrefix(s.ID, sessionID) {
					matches = append(matches, s.ID)
				}
			}
			switch len(matches) {
			case 0:
				return fmt.Errorf("no session %q recorded for %s", sessionID, caseDir)
			case 1:
			default:
				return fmt.Errorf("session id %q is ambiguous (%d matches)", sessionID, len(matches))
			}

			turns, err := j.Turns(cmd.Context(), matches[0])
			if err != nil {
				return fmt.Errorf("reading session: %w", err)
			}
			fmt.Fprintln(out, formatter.FormatTranscript(turns))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of sessions to show (0 for all)")
	cmd.Flags().StringVar(&sessionID, "session", "", "Show the conversation of one session (id or id prefix)")
	return cmd
}
