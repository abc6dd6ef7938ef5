package driven

import "time"

// Metrics records pipeline outcomes. Implementations must be safe for
// concurrent use.
type Metrics interface {
	// ProviderOutcome counts one provider call by status ("ok", "timeout", ...).
	ProviderOutcome(provider, status string)

	// ObserveLatency records the duration of a pipeline operation.
	ObserveLatency(op string, d time.Duration)

	// RecordsReturned records how many records of a kind were fused.
	RecordsReturned(kind string, n int)
}
