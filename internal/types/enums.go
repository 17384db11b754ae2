package types

// HazardKind is the categorical label describing why a segment is flagged
// risky. A segment carries at most one kind; rule priority in the hazard
// package decides which one wins.
type HazardKind string

const (
	HazardFreezing           HazardKind = "freezing"
	HazardHeavyPrecipitation HazardKind = "heavy_precipitation"
	HazardHighWind           HazardKind = "high_wind"
	HazardMountain           HazardKind = "mountain"
)

// SearchStatus tracks the optimal-time engine's lifecycle.
type SearchStatus string

const (
	SearchIdle      SearchStatus = "idle"
	SearchRunning   SearchStatus = "running"
	SearchCompleted SearchStatus = "completed"
	SearchAborted   SearchStatus = "aborted"
)
