package metadata

// These keys are used for the 'key' column in the 'metadata' table.
const (
	// LastLeaderboardWarmupKey stores the RFC3339 timestamp of the last time
	// the Redis leaderboard was rebuilt from the primary database.
	LastLeaderboardWarmupKey = "last_leaderboard_warmup"

	// LastCleanShutdownKey stores the RFC3339 timestamp of the last graceful
	// shutdown. Useful when diagnosing crashed deployments.
	LastCleanShutdownKey = "last_clean_shutdown"
)
