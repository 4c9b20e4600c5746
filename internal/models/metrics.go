package models

import "time"

// EngineMetrics is a point-in-time summary of request, cache and evaluation counters.
type EngineMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	MenuEvaluations          uint64    `json:"menu_evaluations"`
	PriceEvaluations         uint64    `json:"price_evaluations"`
	SkippedRecords           uint64    `json:"skipped_records"`
	EventsPublished          uint64    `json:"events_published"`
	EventsConsumed           uint64    `json:"events_consumed"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
