package commands

// CLI-specific constants
const (
	// DefaultEditorCommand is used when $EDITOR is unset
	DefaultEditorCommand = "vi"
	EnvKeyEditor         = "EDITOR"
)

// Error messages
const (
	ErrDoctorServiceUnavailable  = "doctor service unavailable"
	ErrModelNameEndpointRequired = "--name, --endpoint and --model-id are required"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
)
