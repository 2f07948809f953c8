package dictionary

import "strings"

// Requirement is one entry of a solver's required-file set: it is met once
// any of its names has been written. A single-name requirement is an
// ordinary mandatory file.
type Requirement struct {
	Label string
	AnyOf []string
}

// Require is a mandatory single file.
func Require(name string) Requirement {
	return Requirement{Label: name, AnyOf: []string{name}}
}

// RequireAny is met by any one of names; it reports as "a or b".
func RequireAny(names ...string) Requirement {
	return Requirement{Label: strings.Join(names, " or "), AnyOf: names}
}

// Ledger tracks which required files have been written this session.
// Flags only move from false to true.
type Ledger struct {
	requirements []Requirement
	satisfied    map[string]bool
	written      []string
	seen         map[string]struct{}
}

// NewLedger seeds a ledger with every name referenced by requirements.
func NewLedger(requirements []Requirement) *Ledger {
	l := &Ledger{
		requirements: requirements,
		satisfied:    make(map[string]bool),
		seen:         make(map[string]struct{}),
	}
	for _, req := range requirements {
		for _, name := range req.AnyOf {
			l.satisfied[name] = false
		}
	}
	return l
}

// Record notes that name was written. Untracked names are only remembered
// in the written set.
func (l *Ledger) Record(name string) {
	if _, ok := l.seen[name]; !ok {
		l.seen[name] = struct{}{}
		l.written = append(l.written, name)
	}
	if _, tracked := l.satisfied[name]; tracked {
		l.satisfied[name] = true
	}
}

// Tracks reports whether name is part of any requirement.
func (l *Ledger) Tracks(name string) bool {
	_, ok := l.satisfied[name]
	return ok
}

// Satisfied reports the flag for a single tracked name.
func (l *Ledger) Satisfied(name string) bool {
	return l.satisfied[name]
}

// Missing lists unmet requirement labels in requirement order.
func (l *Ledger) Missing() []string {
	missing := []string{}
	for _, req := range l.requirements {
		if !l.met(req) {
			missing = append(missing, req.Label)
		}
	}
	return missing
}

// Complete reports whether every requirement is met.
func (l *Ledger) Complete() bool {
	for _, req := range l.requirements {
		if !l.met(req) {
			return false
		}
	}
	return true
}

// Progress returns how many requirements are met out of the total.
func (l *Ledger) Progress() (met, total int) {
	for _, req := range l.requirements {
		if l.met(req) {
			met++
		}
	}
	return met, len(l.requirements)
}

// Written returns every name written this session in first-write order.
func (l *Ledger) Written() []string {
	out := make([]string, len(l.written))
	copy(out, l.written)
	return out
}

func (l *Ledger) met(req Requirement) bool {
	for _, name := range req.AnyOf {
		if l.satisfied[name] {
			return true
		}
	}
	return false
}
