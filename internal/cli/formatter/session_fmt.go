package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/whittle/internal/domain"
)

// FormatWelcome renders the banner shown when a session starts.
func FormatWelcome(solverName string) string {
	body := StyleBlue.Bold(true).Render("Welcome to Whittle AI Mesh Assistant!") + "\n\n" +
		fmt.Sprintf("I'll help you set up your %s case using AI-powered recommendations.", Title(solverName))
	return RenderBox("Whittle", body)
}

// FormatWritten is the confirmation line for one dictionary on disk.
func FormatWritten(name string, category domain.DictionaryType, path string) string {
	return fmt.Sprintf("%s Created %s at %s",
		StyleGreen.Render("✓"), CategoryStyle(category).Render(name), Dim(path))
}

// FormatMissing lists required files that have not been written yet.
func FormatMissing(title string, missing []string) string {
	if len(missing) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleRed.Render(title))
	for _, name := range missing {
		b.WriteString("\n- ")
		b.WriteString(name)
	}
	return b.String()
}

// FormatReminder is the short status line shown before each prompt.
func FormatReminder(missing []string, met, total int) string {
	if len(missing) == 0 {
		return fmt.Sprintf("%s %s", RenderProgress(met, total, 12), StyleGreen.Render("all required files present, type 'run' to mesh or 'done' to finish"))
	}
	return fmt.Sprintf("%s %s %s", RenderProgress(met, total, 12),
		StyleYellow.Render("still missing: "+strings.Join(missing, ", ")),
		Dim("(type 'generate' to ask for them)"))
}

// FormatNextSteps is printed once the session is done.
func FormatNextSteps() string {
	return strings.Join([]string{
		StyleGreen.Render("✓") + " Case setup complete!",
		"",
		"Next steps:",
		"1. Review the generated configuration files",
		"2. Run the mesh generation commands",
		"3. Check the mesh quality",
	}, "\n")
}

// FormatCopied confirms geometry copied into the case.
func FormatCopied(path string) string {
	return fmt.Sprintf("%s Copied geometry to %s", StyleGreen.Render("✓"), Dim(path))
}

// FormatTemplateNextSteps is printed after a template setup. tools are the
// mesh commands to run, in order.
func FormatTemplateNextSteps(tools []string) string {
	quoted := make([]string, len(tools))
	for i, tool := range tools {
		quoted[i] = "'" + tool + "'"
	}
	return strings.Join([]string{
		StyleGreen.Render("✓") + " Initial mesh setup complete!",
		"",
		"Next steps:",
		"1. Review generated dictionary files in system/",
		"2. Run mesh generation using " + strings.Join(quoted, " then "),
		"3. Check mesh quality with 'checkMesh'",
	}, "\n")
}

// FormatSolverList renders the available solver ids with display names.
func FormatSolverList(ids []string, displayName func(string) string) string {
	if len(ids) == 0 {
		return StyleYellow.Render("No solver plugins found!")
	}
	var b strings.Builder
	b.WriteString("Available solvers:")
	for _, id := range ids {
		b.WriteString("\n- ")
		b.WriteString(id)
		if name := displayName(id); name != "" && name != id {
			b.WriteString(Dim(" (" + name + ")"))
		}
	}
	return b.String()
}

// FormatHistory renders journaled sessions as a table.
func FormatHistory(summaries []domain.SessionSummary, now time.Time) string {
	if len(summaries) == 0 {
		return Dim("No sessions recorded for this case.")
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		duration := "-"
		if s.EndedAt != nil {
			duration = FormatDuration(s.EndedAt.Sub(s.StartedAt))
		}
		written := "-"
		if len(s.Written) > 0 {
			written = strings.Join(s.Written, ", ")
		}
		rows = append(rows, []string{
			TruncID(s.ID),
			HumanTimestampFrom(s.StartedAt, now),
			s.Solver,
			OutcomePill(s.Outcome),
			duration,
			fmt.Sprintf("%d", s.TurnCount),
			written,
		})
	}
	return RenderTable([]string{"ID", "STARTED", "SOLVER", "OUTCOME", "LENGTH", "TURNS", "WRITTEN"}, rows)
}

// FormatTranscript renders the turns of one journaled session.
func FormatTranscript(turns []*domain.Turn) string {
	if len(turns) == 0 {
		return Dim("No turns recorded for this session.")
	}
	blocks := make([]string, 0, len(turns))
	for _, turn := range turns {
		speaker := StyleBlue.Bold(true).Render("You")
		if turn.Role == domain.RoleAssistant {
			speaker = StylePurple.Bold(true).Render("Assistant")
		}
		blocks = append(blocks, fmt.Sprintf("%s %s\n%s", speaker, Dim(turn.CreatedAt.Local().Format("15:04:05")), strings.TrimSpace(turn.Content)))
	}
	return strings.Join(blocks, "\n\n")
}
