package constants

const (
	AppName            = "studyflow"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/studyflow/studyflow.db"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Input bounds
	EnergyMin     = 1
	EnergyMax     = 5
	DifficultyMin = 1
	DifficultyMax = 5

	// Feedback bounds
	CompletionMin = 0.0
	CompletionMax = 1.0
	TirednessMin  = 1
	TirednessMax  = 5

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "studyflow-"
	BackupFileSuffix = ".db"
)
