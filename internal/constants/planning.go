package constants

// DifficultyAdjustment represents the categorical difficulty shift suggested for tomorrow
type DifficultyAdjustment int

const (
	DifficultyEasier DifficultyAdjustment = -1
	DifficultySame   DifficultyAdjustment = 0
	DifficultyHarder DifficultyAdjustment = 1

	// Duration model output bounds in minutes
	MinRecommendedMinutes = 30
	MaxRecommendedMinutes = 120

	// DefaultPriorCompletion is assumed when no execution history exists yet
	DefaultPriorCompletion = 0.8

	// Difficulty classifier thresholds on prior completion ratio
	HarderCompletionThreshold = 0.8
	EasierCompletionThreshold = 0.5

	// Summary thresholds
	HighFatigueThreshold  = 3.0
	LowFatigueThreshold   = 1.0
	HighPressureThreshold = 1.0

	// Analytics
	HighCompletionThreshold = 0.8

	// Metric names persisted alongside a plan
	MetricEnergyLevel       = "energy_level"
	MetricFatigueScore      = "fatigue_score"
	MetricProductivityScore = "productivity_score"
	MetricTimePressure      = "time_pressure"
)
