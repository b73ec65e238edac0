package domain

import (
	"fmt"
	"strings"
)

// SessionContext is the in-memory record of one interactive session.
// History is bounded: after every append the oldest entries are dropped until
// both limits hold, except that the newest entry is always kept.
// LastCommand and LastOutput are never trimmed.
type SessionContext struct {
	LastCommand string
	LastOutput  string

	entries    []string
	size       int
	total      int
	maxEntries int
	maxBytes   int
}

// SessionSnapshot is an immutable copy handed to the completion backend.
type SessionSnapshot struct {
	History     string
	LastCommand string
	LastOutput  string
}

// NewSessionContext creates a session seeded with the greeting command.
// Non-positive limits fall back to the package defaults.
func NewSessionContext(maxEntries, maxBytes int) *SessionContext {
	if maxEntries <= 0 {
		maxEntries = DefaultHistoryMaxEntries
	}
	if maxBytes <= 0 {
		maxBytes = DefaultHistoryMaxBytes
	}
	return &SessionContext{
		LastCommand: DefaultLastCommand,
		LastOutput:  DefaultLastOutput,
		maxEntries:  maxEntries,
		maxBytes:    maxBytes,
	}
}

// FormatEntry renders one history entry.
func FormatEntry(command, output string) string {
	return fmt.Sprintf("> %s\n%s\n", command, output)
}

// Update records an executed command and its combined output.
func (s *SessionContext) Update(command, output string) {
	s.LastCommand = command
	s.LastOutput = output
	s.append(FormatEntry(command, output))
}

// RecordAnswer appends an answered question to the history only.
func (s *SessionContext) RecordAnswer(question, answer string) {
	s.append(FormatEntry("## "+question, answer))
}

func (s *SessionContext) append(entry string) {
	s.entries = append(s.entries, entry)
	s.size += len(entry)
	s.total++
	s.trim()
}

func (s *SessionContext) trim() {
	drop := 0
	for len(s.entries)-drop > 1 &&
		(len(s.entries)-drop > s.maxEntries || s.size > s.maxBytes) {
		s.size -= len(s.entries[drop])
		drop++
	}
	if drop > 0 {
		s.entries = append([]string(nil), s.entries[drop:]...)
	}
}

// History returns the retained entries in chronological order.
func (s *SessionContext) History() string {
	return strings.Join(s.entries, "")
}

// Entries returns a copy of the retained entries.
func (s *SessionContext) Entries() []string {
	return append([]string(nil), s.entries...)
}

// Len returns the number of retained entries.
func (s *SessionContext) Len() int {
	return len(s.entries)
}

// Total returns how many entries were ever appended.
func (s *SessionContext) Total() int {
	return s.total
}

// Snapshot copies the current state.
func (s *SessionContext) Snapshot() SessionSnapshot {
	return SessionSnapshot{
		History:     s.History(),
		LastCommand: s.LastCommand,
		LastOutput:  s.LastOutput,
	}
}
