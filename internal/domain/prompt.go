package domain

import "time"

// PromptInfo is what the status line above the REPL prompt shows.
type PromptInfo struct {
	Time       time.Time
	User       string
	Host       string
	Path       string
	Git        *GitStatus
	VirtualEnv string
}

// GitStatus summarises the repository the session is in.
type GitStatus struct {
	Branch       string
	ChangedFiles int
}
