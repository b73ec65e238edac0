package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultCommandTimeout bounds helper commands such as git probes
	DefaultCommandTimeout = 2 * time.Second
	// DefaultRequestTimeout is the timeout for completion requests
	DefaultRequestTimeout = 60 * time.Second
	// DefaultCacheTTL is how long a completion stays cached
	DefaultCacheTTL = 10 * time.Minute
)

// Session defaults. The seed values give the model something to anchor on
// before the first command runs.
const (
	DefaultLastCommand       = "echo 'Hello, World!'"
	DefaultLastOutput        = "Hello, World!\n"
	DefaultHistoryMaxEntries = 50
	DefaultHistoryMaxBytes   = 16 * 1024
)

// Execution defaults
const (
	DefaultShell = "/bin/sh"
)

// Model configuration constants
const (
	// DefaultMaxTokens is the default maximum number of tokens
	DefaultMaxTokens = 1024
	// DefaultMaxCacheEntries is the maximum number of cache entries
	DefaultMaxCacheEntries = 100
	// DefaultModelTestTimeout is the default timeout for model testing
	DefaultModelTestTimeout = 30 * time.Second
	// SanitizeTemperature keeps the cleanup round trip deterministic
	SanitizeTemperature = 0.0
)
