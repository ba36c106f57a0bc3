package memory

import "errors"

// Sentinel errors for the memory capability. Per the propagation policy, a
// query error here is logged by the caller and treated as an empty result —
// it must never abort a run.
var (
	ErrNotInitialized = errors.New("memory: capability not initialized")
	ErrQueryFailed    = errors.New("memory: query failed")
	ErrCapacityFull   = errors.New("memory: capacity exceeded")
)
