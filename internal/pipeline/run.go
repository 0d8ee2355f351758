// Package pipeline orchestrates a profile analysis run: concurrent section
// scanning and extraction, deterministic completeness scoring, cache-aware
// quality analysis, and progress events for whatever surface is watching.
package pipeline

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/prPMDev/elevateli/internal/analysis"
	"github.com/prPMDev/elevateli/internal/cache"
	"github.com/prPMDev/elevateli/internal/scoring"
	"github.com/prPMDev/elevateli/internal/sections"
	"github.com/prPMDev/elevateli/internal/types"
)

// Options configures one analysis run.
type Options struct {
	// AIEnabled gates the deep-extraction and external analysis phase.
	AIEnabled bool
	// ForceRefresh bypasses a valid cache entry and recomputes.
	ForceRefresh bool
	// TTLDays is the cache validity window; zero means the default.
	TTLDays int
	// Instructions are optional extra reviewer instructions for the analyzer.
	Instructions string
	// OnProgress receives state-transition events. May be nil.
	OnProgress ProgressCallback
}

// Result is the outcome of a completed run.
type Result struct {
	ProfileID    string
	State        State
	Snapshot     *types.Snapshot
	Fingerprint  string
	Completeness *types.CompletenessResult
	Quality      *types.QualityResult
	FromCache    bool
}

// Orchestrator drives analysis runs. A new run supersedes any in-flight one:
// the older run's pending results are discarded silently, per-section, before
// they commit.
type Orchestrator struct {
	registry []sections.Extractor
	cache    *cache.Cache
	analyzer analysis.Analyzer

	runSeq  atomic.Int64
	current atomic.Int64
}

// New creates an orchestrator. A nil registry uses the standard section set;
// a nil analyzer disables the AI phase regardless of options.
func New(registry []sections.Extractor, resultCache *cache.Cache, analyzer analysis.Analyzer) *Orchestrator {
	if registry == nil {
		registry = sections.Registry()
	}
	if resultCache == nil {
		resultCache = cache.New(cache.NewMemoryStore())
	}
	return &Orchestrator{registry: registry, cache: resultCache, analyzer: analyzer}
}

// run carries the per-run mutable state referenced by concurrent section
// operations.
type run struct {
	o    *Orchestrator
	id   int64
	opts Options

	mu   sync.Mutex
	snap *types.Snapshot
}

// Analyze executes the full pipeline over an already-parsed profile document.
// It returns ErrSuperseded if a newer run started mid-flight, a *FatalError
// for unsupported documents or unavailable storage, and a Result otherwise.
// Per-section failures never surface; the failed section reads as missing.
func (o *Orchestrator) Analyze(ctx context.Context, profileID string, doc *goquery.Document, opts Options) (*Result, error) {
	r := &run{
		o:    o,
		id:   o.runSeq.Add(1),
		opts: opts,
		snap: types.NewSnapshot(profileID),
	}
	o.current.Store(r.id)

	r.emit(ProgressEvent{State: StateInitializing})
	if !supportedDocument(doc) {
		r.emit(ProgressEvent{State: StateError, Message: "document is not a supported profile page"})
		return nil, &FatalError{Message: "document is not a supported profile page"}
	}

	r.emit(ProgressEvent{State: StateScanning})
	r.fanOut(ctx, doc, types.PhaseScan)
	if r.superseded() {
		return nil, ErrSuperseded
	}

	r.emit(ProgressEvent{State: StateExtracting})
	r.fanOut(ctx, doc, types.PhaseExtract)
	if r.superseded() {
		return nil, ErrSuperseded
	}

	completeness := scoring.Completeness(r.snap)
	r.emit(ProgressEvent{State: StateCalculating, Completeness: &completeness.Score})

	fingerprint := r.snap.Fingerprint()
	result := &Result{
		ProfileID:    profileID,
		Snapshot:     r.snap,
		Fingerprint:  fingerprint,
		Completeness: completeness,
	}

	if !opts.AIEnabled || o.analyzer == nil {
		result.State = StateComplete
		r.emit(ProgressEvent{State: StateComplete, Completeness: &completeness.Score})
		return result, nil
	}

	entry, err := o.readCache(ctx, profileID)
	if err != nil {
		r.emit(ProgressEvent{State: StateError, Message: "storage unavailable"})
		return nil, &FatalError{Message: "storage collaborator unavailable", Cause: err}
	}
	if !opts.ForceRefresh && o.cache.IsValid(entry, fingerprint, opts.TTLDays) {
		result.Quality = entry.Quality
		result.FromCache = true
		result.State = StateComplete
		r.emit(ProgressEvent{State: StateComplete, Completeness: &completeness.Score, QualityScore: &entry.Quality.OverallScore})
		return result, nil
	}

	quality := r.analyzePhase(ctx, doc)
	if r.superseded() {
		return nil, ErrSuperseded
	}
	result.Quality = quality

	if !quality.Degraded {
		if err := o.cache.Put(ctx, &types.CacheEntry{
			ProfileID:    profileID,
			Fingerprint:  fingerprint,
			Completeness: completeness,
			Quality:      quality,
			ComputedAt:   time.Now().UTC(),
		}); err != nil {
			// Losing the cache write costs a recomputation later, nothing more.
			log.Printf("[pipeline] cache write failed for %s: %v", profileID, err)
		}
	}

	result.State = StateComplete
	r.emit(ProgressEvent{State: StateComplete, Completeness: &completeness.Score, QualityScore: &quality.OverallScore})
	return result, nil
}

// fanOut dispatches one phase across all sections concurrently and waits for
// every outcome, success or failure, before returning.
func (r *run) fanOut(ctx context.Context, doc *goquery.Document, phase types.Phase) {
	g, ctx := errgroup.WithContext(ctx)
	for _, ex := range r.o.registry {
		g.Go(func() error {
			var res types.SectionResult
			err := withRetry(ctx, string(ex.Section())+" "+phase.String(), func() error {
				res = runPhase(ex, doc, phase)
				return nil
			})
			if err != nil {
				// Contained: the section reads as missing, the run goes on.
				log.Printf("[pipeline] section %s %s failed: %v", ex.Section(), phase, err)
				res = types.Missing(phase)
			}
			r.commit(ex.Section(), res, phase)
			return nil
		})
	}
	_ = g.Wait()
}

// analyzePhase runs deep extraction sequentially in canonical order, then
// makes one analyzer call over the whole prepared snapshot.
func (r *run) analyzePhase(ctx context.Context, doc *goquery.Document) *types.QualityResult {
	r.emit(ProgressEvent{State: StateAIAnalyzing})

	for _, ex := range r.o.registry {
		sec := ex.Section()
		if !r.snap.Get(sec).Exists {
			continue
		}
		var res types.SectionResult
		err := withRetry(ctx, string(sec)+" deep", func() error {
			res = ex.ExtractDeep(doc)
			return nil
		})
		if err != nil {
			log.Printf("[pipeline] deep extraction for %s failed: %v", sec, err)
			continue // keep the shallower phase's result
		}
		r.commit(sec, res, types.PhaseDeep)
	}

	prepared := analysis.Prepare(r.snap)
	if len(prepared) == 0 {
		return scoring.NeutralQuality(r.snap)
	}

	parsed, err := r.callAnalyzer(ctx, prepared)
	if err != nil {
		log.Printf("[pipeline] analysis degraded to neutral score: %v", err)
		return scoring.NeutralQuality(r.snap)
	}

	quality := scoring.Quality(r.snap, parsed.SectionScores)
	quality.Recommendations = &parsed.Recommendations
	quality.Insights = &parsed.Insights
	return quality
}

// callAnalyzer retries transient provider failures with backoff but gives up
// immediately on malformed output, which a retry will not fix.
func (r *run) callAnalyzer(ctx context.Context, prepared []analysis.PreparedSection) (*analysis.Analysis, error) {
	var lastErr error
	delay := baseRetryDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var parsed *analysis.Analysis
		err := safely(func() error {
			var callErr error
			parsed, callErr = r.o.analyzer.Analyze(ctx, prepared, r.opts.Instructions)
			return callErr
		})
		if err == nil {
			return parsed, nil
		}
		lastErr = err

		var parseErr *analysis.ParseError
		if errors.As(err, &parseErr) {
			return nil, err
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		delay *= backoffMultiple
	}
	return nil, lastErr
}

// commit records a section result unless the run has been superseded, in
// which case the result is discarded silently.
func (r *run) commit(sec types.Section, res types.SectionResult, phase types.Phase) {
	if r.superseded() {
		return
	}
	r.mu.Lock()
	r.snap.Set(sec, res)
	count := r.snap.Get(sec).TotalCount
	r.mu.Unlock()

	state := StateScanning
	switch phase {
	case types.PhaseExtract:
		state = StateExtracting
	case types.PhaseDeep:
		state = StateAIAnalyzing
	}
	r.emit(ProgressEvent{State: state, Section: sec, ItemCount: count})
}

func (r *run) superseded() bool {
	return r.o.current.Load() != r.id
}

func (r *run) emit(event ProgressEvent) {
	if r.opts.OnProgress == nil || r.superseded() {
		return
	}
	event.RunID = r.id
	r.opts.OnProgress(event)
}

// readCache retries transient storage failures; persistent failure is the
// one storage condition treated as fatal.
func (o *Orchestrator) readCache(ctx context.Context, profileID string) (*types.CacheEntry, error) {
	var entry *types.CacheEntry
	err := withRetry(ctx, "cache read", func() error {
		e, err := o.cache.Get(ctx, profileID)
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	return entry, err
}

// runPhase dispatches the requested phase on an extractor.
func runPhase(ex sections.Extractor, doc *goquery.Document, phase types.Phase) types.SectionResult {
	switch phase {
	case types.PhaseExtract:
		return ex.Extract(doc)
	case types.PhaseDeep:
		return ex.ExtractDeep(doc)
	default:
		return ex.Scan(doc)
	}
}

// supportedDocument rejects pages that are clearly not a profile: no heading
// structure at all means a login wall, an error page, or the wrong site.
func supportedDocument(doc *goquery.Document) bool {
	if doc == nil {
		return false
	}
	return doc.Find("h1, [role=heading]").Length() > 0
}
