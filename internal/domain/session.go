package domain

import "time"

// Session is one assistant run against a case directory.
type Session struct {
	ID        string
	Solver    string
	Model     string
	CaseDir   string
	StartedAt time.Time
	EndedAt   *time.Time
	Outcome   SessionOutcome
}

// Turn is a single message exchanged with the model during a session.
type Turn struct {
	ID        string
	SessionID string
	Seq       int
	Role      TurnRole
	Content   string
	CreatedAt time.Time
}

// DictionaryWrite records one dictionary file written during a session.
type DictionaryWrite struct {
	ID        string
	SessionID string
	Name      string
	Category  DictionaryType
	Path      string
	WrittenAt time.Time
}

// SessionSummary is a session together with its aggregate journal counts.
type SessionSummary struct {
	Session
	TurnCount int
	Written   []string
}
