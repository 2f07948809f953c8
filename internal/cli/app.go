package cli

import (
	"io"
	"os"
	"time"

	"github.com/alexanderramin/whittle/internal/config"
	"github.com/alexanderramin/whittle/internal/llm"
	"github.com/alexanderramin/whittle/internal/mesh"
)

// App carries the process-level dependencies of the commands.
type App struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Paths locates the .env files; empty fields come from the OS.
	Paths config.Paths

	// IsInteractive reports whether stdin and stdout are a terminal. It
	// switches on markdown rendering, the spinner and the huh prompt.
	IsInteractive func() bool

	// Client replaces the configured LLM client when set.
	Client llm.ChatClient

	// CommandRunner replaces the subprocess runner for mesh steps when set.
	CommandRunner mesh.CommandRunner

	Now func() time.Time
}

// NewApp returns an App bound to the process's standard streams.
func NewApp(isInteractive func() bool) *App {
	return &App{
		In:            os.Stdin,
		Out:           os.Stdout,
		Err:           os.Stderr,
		IsInteractive: isInteractive,
		Now:           time.Now,
	}
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}
