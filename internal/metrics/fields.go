package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrOp      = "op"
	AttrAction  = "action"
	AttrOutcome = "outcome"
)

const (
	fetchOutcomeApplied = "applied"
	fetchOutcomeFailed  = "failed"
	fetchOutcomeStale   = "stale"
)
