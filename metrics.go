package shrexport

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofhir/shrexport/pkg/issue"
)

// Metrics tracks export metrics using lock-free atomic operations.
// All methods are safe for concurrent use.
type Metrics struct {
	// Document counts
	documentsTotal    atomic.Uint64
	documentsExported atomic.Uint64
	documentsFailed   atomic.Uint64

	// Size
	nodesEmitted atomic.Uint64

	// Timing (stored as nanoseconds)
	exportTimeTotal atomic.Uint64
	exportTimeMin   atomic.Uint64
	exportTimeMax   atomic.Uint64

	// Pool metrics
	poolAcquires atomic.Uint64
	poolReleases atomic.Uint64

	// Document cache
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64

	// Issue counts by severity
	errorsTotal   atomic.Uint64
	warningsTotal atomic.Uint64
	infosTotal    atomic.Uint64

	// Per-stage timing
	stageTiming sync.Map // map[string]*stageMetrics
}

type stageMetrics struct {
	invocations atomic.Uint64
	totalTime   atomic.Uint64 // nanoseconds
	issuesFound atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so first value becomes the minimum
	m.exportTimeMin.Store(^uint64(0))
	return m
}

// --- Recording Methods ---

// RecordExport records one finished entry. ok is false when no document
// was produced or the document has errors.
func (m *Metrics) RecordExport(duration time.Duration, nodes int, ok bool) {
	m.documentsTotal.Add(1)
	if ok {
		m.documentsExported.Add(1)
	} else {
		m.documentsFailed.Add(1)
	}
	m.nodesEmitted.Add(uint64(nodes)) //nolint:gosec // Safe: node counts are non-negative

	ns := uint64(duration.Nanoseconds()) //nolint:gosec // Safe: nanoseconds are always positive for valid durations
	m.exportTimeTotal.Add(ns)

	// Update min (CAS loop)
	for {
		old := m.exportTimeMin.Load()
		if ns >= old {
			break
		}
		if m.exportTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (CAS loop)
	for {
		old := m.exportTimeMax.Load()
		if ns <= old {
			break
		}
		if m.exportTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordPoolAcquire records a pool acquire operation.
func (m *Metrics) RecordPoolAcquire() {
	m.poolAcquires.Add(1)
}

// RecordPoolRelease records a pool release operation.
func (m *Metrics) RecordPoolRelease() {
	m.poolReleases.Add(1)
}

// RecordCacheHit records a document served from the cache.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records a document that had to be assembled.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// RecordIssue records an issue based on severity.
func (m *Metrics) RecordIssue(severity issue.Severity) {
	switch severity {
	case issue.SeverityError, issue.SeverityFatal:
		m.errorsTotal.Add(1)
	case issue.SeverityWarning:
		m.warningsTotal.Add(1)
	case issue.SeverityInformation:
		m.infosTotal.Add(1)
	}
}

// RecordIssues records every issue in issues.
func (m *Metrics) RecordIssues(issues []issue.Issue) {
	for i := range issues {
		m.RecordIssue(issues[i].Severity)
	}
}

// RecordStage records metrics for one export stage (expand, constraint).
func (m *Metrics) RecordStage(name string, duration time.Duration, issuesFound int) {
	sm := m.getOrCreateStageMetrics(name)
	sm.invocations.Add(1)
	sm.totalTime.Add(uint64(duration.Nanoseconds())) //nolint:gosec // Safe: nanoseconds are always positive
	sm.issuesFound.Add(uint64(issuesFound))          //nolint:gosec // Safe: issuesFound is a small positive integer
}

func (m *Metrics) getOrCreateStageMetrics(name string) *stageMetrics {
	if v, ok := m.stageTiming.Load(name); ok {
		return v.(*stageMetrics)
	}
	sm := &stageMetrics{}
	actual, _ := m.stageTiming.LoadOrStore(name, sm)
	return actual.(*stageMetrics)
}

// --- Query Methods ---

// DocumentsTotal returns the number of entries processed.
func (m *Metrics) DocumentsTotal() uint64 {
	return m.documentsTotal.Load()
}

// DocumentsExported returns the number of entries exported without errors.
func (m *Metrics) DocumentsExported() uint64 {
	return m.documentsExported.Load()
}

// DocumentsFailed returns the number of entries that failed.
func (m *Metrics) DocumentsFailed() uint64 {
	return m.documentsFailed.Load()
}

// NodesEmitted returns the total number of element nodes produced.
func (m *Metrics) NodesEmitted() uint64 {
	return m.nodesEmitted.Load()
}

// SuccessRate returns the share of entries exported without errors (0.0 to 1.0).
func (m *Metrics) SuccessRate() float64 {
	total := m.documentsTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(m.documentsExported.Load()) / float64(total)
}

// AverageExportTime returns the average export duration.
func (m *Metrics) AverageExportTime() time.Duration {
	total := m.documentsTotal.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.exportTimeTotal.Load() / total) //nolint:gosec // Safe: nanoseconds within int64 range
}

// MinExportTime returns the minimum export duration.
func (m *Metrics) MinExportTime() time.Duration {
	minVal := m.exportTimeMin.Load()
	if minVal == ^uint64(0) {
		return 0
	}
	return time.Duration(minVal) //nolint:gosec // Safe: nanoseconds within int64 range
}

// MaxExportTime returns the maximum export duration.
func (m *Metrics) MaxExportTime() time.Duration {
	return time.Duration(m.exportTimeMax.Load()) //nolint:gosec // Safe: nanoseconds within int64 range
}

// PoolAcquires returns the total pool acquire operations.
func (m *Metrics) PoolAcquires() uint64 {
	return m.poolAcquires.Load()
}

// PoolReleases returns the total pool release operations.
func (m *Metrics) PoolReleases() uint64 {
	return m.poolReleases.Load()
}

// CacheHits returns the number of documents served from the cache.
func (m *Metrics) CacheHits() uint64 {
	return m.cacheHits.Load()
}

// CacheMisses returns the number of cache lookups that missed.
func (m *Metrics) CacheMisses() uint64 {
	return m.cacheMisses.Load()
}

// ErrorsTotal returns the total error issues found.
func (m *Metrics) ErrorsTotal() uint64 {
	return m.errorsTotal.Load()
}

// WarningsTotal returns the total warning issues found.
func (m *Metrics) WarningsTotal() uint64 {
	return m.warningsTotal.Load()
}

// InfosTotal returns the total informational issues found.
func (m *Metrics) InfosTotal() uint64 {
	return m.infosTotal.Load()
}

// StageStats holds statistics for one export stage.
type StageStats struct {
	Name        string        `json:"name"`
	Invocations uint64        `json:"invocations"`
	TotalTime   time.Duration `json:"total_time_ns"`
	AvgTime     time.Duration `json:"avg_time_ns"`
	IssuesFound uint64        `json:"issues_found"`
}

func (sm *stageMetrics) stats(name string) StageStats {
	invocations := sm.invocations.Load()
	totalTime := sm.totalTime.Load()

	var avgTime time.Duration
	if invocations > 0 {
		avgTime = time.Duration(totalTime / invocations) //nolint:gosec // Safe: nanoseconds within int64 range
	}
	return StageStats{
		Name:        name,
		Invocations: invocations,
		TotalTime:   time.Duration(totalTime), //nolint:gosec // Safe: nanoseconds within int64 range
		AvgTime:     avgTime,
		IssuesFound: sm.issuesFound.Load(),
	}
}

// StageStats returns statistics for a specific stage.
func (m *Metrics) StageStats(name string) (StageStats, bool) {
	v, ok := m.stageTiming.Load(name)
	if !ok {
		return StageStats{Name: name}, false
	}
	return v.(*stageMetrics).stats(name), true
}

// AllStageStats returns statistics for all stages.
func (m *Metrics) AllStageStats() []StageStats {
	var stats []StageStats
	m.stageTiming.Range(func(key, value any) bool {
		stats = append(stats, value.(*stageMetrics).stats(key.(string)))
		return true
	})
	return stats
}

// --- Export Methods ---

// Snapshot represents a point-in-time snapshot of all metrics.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	DocumentsTotal    uint64  `json:"documents_total"`
	DocumentsExported uint64  `json:"documents_exported"`
	DocumentsFailed   uint64  `json:"documents_failed"`
	SuccessRate       float64 `json:"success_rate"`
	NodesEmitted      uint64  `json:"nodes_emitted"`

	// Timing metrics (in nanoseconds for precision)
	AvgExportTimeNs uint64 `json:"avg_export_time_ns"`
	MinExportTimeNs uint64 `json:"min_export_time_ns"`
	MaxExportTimeNs uint64 `json:"max_export_time_ns"`

	PoolAcquires uint64 `json:"pool_acquires"`
	PoolReleases uint64 `json:"pool_releases"`

	CacheHits   uint64 `json:"cache_hits"`
	CacheMisses uint64 `json:"cache_misses"`

	ErrorsTotal   uint64 `json:"errors_total"`
	WarningsTotal uint64 `json:"warnings_total"`
	InfosTotal    uint64 `json:"infos_total"`

	Stages []StageStats `json:"stages,omitempty"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	total := m.documentsTotal.Load()

	var avgTime uint64
	var rate float64
	if total > 0 {
		avgTime = m.exportTimeTotal.Load() / total
		rate = float64(m.documentsExported.Load()) / float64(total)
	}

	minTime := m.exportTimeMin.Load()
	if minTime == ^uint64(0) {
		minTime = 0
	}

	return Snapshot{
		Timestamp:         time.Now(),
		DocumentsTotal:    total,
		DocumentsExported: m.documentsExported.Load(),
		DocumentsFailed:   m.documentsFailed.Load(),
		SuccessRate:       rate,
		NodesEmitted:      m.nodesEmitted.Load(),
		AvgExportTimeNs:   avgTime,
		MinExportTimeNs:   minTime,
		MaxExportTimeNs:   m.exportTimeMax.Load(),
		PoolAcquires:      m.poolAcquires.Load(),
		PoolReleases:      m.poolReleases.Load(),
		CacheHits:         m.cacheHits.Load(),
		CacheMisses:       m.cacheMisses.Load(),
		ErrorsTotal:       m.errorsTotal.Load(),
		WarningsTotal:     m.warningsTotal.Load(),
		InfosTotal:        m.infosTotal.Load(),
		Stages:            m.AllStageStats(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.documentsTotal.Store(0)
	m.documentsExported.Store(0)
	m.documentsFailed.Store(0)
	m.nodesEmitted.Store(0)
	m.exportTimeTotal.Store(0)
	m.exportTimeMin.Store(^uint64(0))
	m.exportTimeMax.Store(0)
	m.poolAcquires.Store(0)
	m.poolReleases.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.errorsTotal.Store(0)
	m.warningsTotal.Store(0)
	m.infosTotal.Store(0)

	m.stageTiming.Range(func(key, _ any) bool {
		m.stageTiming.Delete(key)
		return true
	})
}
