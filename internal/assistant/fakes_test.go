package assistant

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/whittle/internal/domain"
	"github.com/alexanderramin/whittle/internal/llm"
)

// step is one scripted model answer.
type step struct {
	reply string
	err   error
}

type scriptedClient struct {
	steps   []step
	prompts []string
}

func (c *scriptedClient) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	c.prompts = append(c.prompts, req.Messages[len(req.Messages)-1].Content)
	if len(c.steps) == 0 {
		return &llm.ChatResponse{Text: "Nothing more to add."}, nil
	}
	s := c.steps[0]
	c.steps = c.steps[1:]
	if s.err != nil {
		return nil, s.err
	}
	return &llm.ChatResponse{Text: s.reply}, nil
}

// foam renders a reply declaring each name in its own foam block.
func foam(names ...string) string {
	var b strings.Builder
	b.WriteString("Here you go.\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "```foam\nFoamFile\n{\n    object      %s;\n}\n// %s body\n```\n\n", name, name)
	}
	return b.String()
}

type lineInput struct {
	lines []string
	read  int
}

func (in *lineInput) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if in.read >= len(in.lines) {
		return "", io.EOF
	}
	line := in.lines[in.read]
	in.read++
	return line, nil
}

type recordingDisplay struct {
	events []string
}

func (d *recordingDisplay) Welcome(solverName string) {
	d.events = append(d.events, "welcome "+solverName)
}

func (d *recordingDisplay) Reply(string) {
	d.events = append(d.events, "reply")
}

func (d *recordingDisplay) Reminder(missing []string, met, total int) {
	d.events = append(d.events, fmt.Sprintf("reminder %d/%d %s", met, total, strings.Join(missing, ",")))
}

func (d *recordingDisplay) Missing(title string, missing []string) {
	d.events = append(d.events, fmt.Sprintf("missing %s %s", title, strings.Join(missing, ",")))
}

func (d *recordingDisplay) Info(message string) {
	d.events = append(d.events, "info "+message)
}

func (d *recordingDisplay) Error(err error) {
	d.events = append(d.events, "error "+err.Error())
}

func (d *recordingDisplay) Busy(_ string, fn func() error) error {
	return fn()
}

func (d *recordingDisplay) NextSteps() {
	d.events = append(d.events, "next steps")
}

func (d *recordingDisplay) has(prefix string) bool {
	for _, e := range d.events {
		if strings.HasPrefix(e, prefix) {
			return true
		}
	}
	return false
}

type fakeMesh struct {
	err  error
	runs int
}

func (m *fakeMesh) Run(context.Context) error {
	m.runs++
	return m.err
}

type recordingJournal struct {
	exchanges int
	outcome   domain.SessionOutcome
}

func (j *recordingJournal) RecordExchange(context.Context, string, string) {
	j.exchanges++
}

func (j *recordingJournal) Finish(_ context.Context, outcome domain.SessionOutcome) {
	j.outcome = outcome
}
