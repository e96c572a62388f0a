package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles and gradual rollouts.
// Supports percentage rollout, per-player overrides, and time-based activation.
type FeatureFlags struct {
	mu sync.RWMutex

	// Core features
	features map[string]*Feature

	// Override rules (for testing/debugging)
	playerOverrides map[string]map[string]bool // playerID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Players are assigned based on hash of their ID
	RolloutPercent int

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	PlayerID string
	IsAdmin  bool
}

// Predefined feature flag names.
const (
	// === Leaderboard Features ===
	FeatureLeaderboardCache         = "leaderboard.cache"          // Redis snapshot cache
	FeatureLeaderboardAccuracy      = "leaderboard.accuracy"       // accuracy category
	FeatureLeaderboardAverageTime   = "leaderboard.average_time"   // averageTime category
	FeatureLeaderboardPlayerRanks   = "leaderboard.player_ranks"   // per-player rank lookups
	FeatureLeaderboardLiveProjector = "leaderboard.live_projector" // event-driven rebuilds

	// === Game Features ===
	FeatureGameTimeBonus   = "game.time_bonus"   // speed bonus scoring
	FeatureGameDailyLimit  = "game.daily_limit"  // per-day submission cap
	FeatureGameRiddleStats = "game.riddle_stats" // per-riddle aggregates

	// === Experimental Features ===
	FeatureExperimentalStreaks   = "experimental.streaks"   // consecutive-day streaks
	FeatureExperimentalHeatmap   = "experimental.heatmap"   // guess density heatmap
	FeatureExperimentalAnalytics = "experimental.analytics" // advanced analytics
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:        make(map[string]*Feature),
		playerOverrides: make(map[string]map[string]bool),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	// Leaderboard features - enabled by default
	ff.features[FeatureLeaderboardCache] = &Feature{
		Name:           FeatureLeaderboardCache,
		Description:    "Serve leaderboards from the Redis snapshot cache",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureLeaderboardAccuracy] = &Feature{
		Name:           FeatureLeaderboardAccuracy,
		Description:    "Accuracy leaderboard category",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureLeaderboardAverageTime] = &Feature{
		Name:           FeatureLeaderboardAverageTime,
		Description:    "Average answer time leaderboard category",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureLeaderboardPlayerRanks] = &Feature{
		Name:           FeatureLeaderboardPlayerRanks,
		Description:    "Per-player rank lookups across windows",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureLeaderboardLiveProjector] = &Feature{
		Name:           FeatureLeaderboardLiveProjector,
		Description:    "Rebuild cached leaderboards on every submission event",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Game features
	ff.features[FeatureGameTimeBonus] = &Feature{
		Name:           FeatureGameTimeBonus,
		Description:    "Speed bonus on top of the distance score",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureGameDailyLimit] = &Feature{
		Name:           FeatureGameDailyLimit,
		Description:    "Cap submissions per player per UTC day",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureGameRiddleStats] = &Feature{
		Name:           FeatureGameRiddleStats,
		Description:    "Aggregate statistics per riddle",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Experimental features - disabled by default
	ff.features[FeatureExperimentalStreaks] = &Feature{
		Name:           FeatureExperimentalStreaks,
		Description:    "Consecutive-day answer streaks",
		Enabled:        false,
		RolloutPercent: 0,
	}

	ff.features[FeatureExperimentalHeatmap] = &Feature{
		Name:           FeatureExperimentalHeatmap,
		Description:    "Guess density heatmap per riddle",
		Enabled:        false,
		RolloutPercent: 0,
	}

	ff.features[FeatureExperimentalAnalytics] = &Feature{
		Name:           FeatureExperimentalAnalytics,
		Description:    "Advanced analytics dashboard",
		Enabled:        false,
		RolloutPercent: 0,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_LEADERBOARD_CACHE=true
// Example: FEATURE_EXPERIMENTAL_STREAKS=50 (50% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			// Try parsing as boolean
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
				if b {
					feature.RolloutPercent = 100
				} else {
					feature.RolloutPercent = 0
				}
				continue
			}

			// Try parsing as percentage
			if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
				feature.Enabled = p > 0
				feature.RolloutPercent = p
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "leaderboard.cache" -> "FEATURE_LEADERBOARD_CACHE"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check player overrides first
	if ctx != nil && ctx.PlayerID != "" {
		if overrides, ok := ff.playerOverrides[ctx.PlayerID]; ok {
			if enabled, ok := overrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Admin users get all features
	if ctx != nil && ctx.IsAdmin {
		return true
	}

	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	// Check rollout percentage
	if feature.RolloutPercent < 100 && ctx != nil && ctx.PlayerID != "" {
		return ff.isInRollout(ctx.PlayerID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if a player is in the rollout percentage.
// Uses consistent hashing so players stay in their bucket.
func (ff *FeatureFlags) isInRollout(playerID, featureName string, percent int) bool {
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(playerID))
	hash := h.Sum32()

	// Map to 0-99 range
	bucket := int(hash % 100)

	return bucket < percent
}

// SetPlayerOverride sets a feature override for a specific player.
// Useful for testing and debugging.
func (ff *FeatureFlags) SetPlayerOverride(playerID, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.playerOverrides[playerID]; !ok {
		ff.playerOverrides[playerID] = make(map[string]bool)
	}
	ff.playerOverrides[playerID][featureName] = enabled
}

// ClearPlayerOverrides removes all overrides for a player.
func (ff *FeatureFlags) ClearPlayerOverrides(playerID string) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.playerOverrides, playerID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
// Thread-safe for live updates.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
