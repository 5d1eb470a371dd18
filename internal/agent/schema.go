package agent

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/garooinc/itzana-insights/internal/knowledge"
	"github.com/garooinc/itzana-insights/internal/store"
)

const (
	schemaCacheTTL = 5 * time.Minute
	vocabularyCap  = 200
)

// SchemaProvider exposes the store's column list and the partner vocabulary
// as grounding context, cached with a TTL. Concurrent misses share one store
// read via singleflight. A failing store degrades to the placeholder schema
// and the static vocabulary — never an abort.
type SchemaProvider struct {
	store *store.Store
	table string
	// vocabColumn is the designated partner column whose distinct values
	// extend the static vocabulary.
	vocabColumn string

	mu        sync.RWMutex
	cached    store.SchemaContext
	expiresAt time.Time
	sf        singleflight.Group
}

func NewSchemaProvider(st *store.Store, table, vocabColumn string) *SchemaProvider {
	return &SchemaProvider{store: st, table: table, vocabColumn: vocabColumn}
}

// Context returns the current schema context. Rebuilt at most once per TTL;
// immutable per pipeline run.
func (p *SchemaProvider) Context(ctx context.Context) store.SchemaContext {
	p.mu.RLock()
	if time.Now().Before(p.expiresAt) {
		sc := p.cached
		p.mu.RUnlock()
		return sc
	}
	p.mu.RUnlock()

	v, _, _ := p.sf.Do(p.table, func() (interface{}, error) {
		// Double-check inside singleflight in case another goroutine already
		// repopulated the cache while we waited to enter.
		p.mu.RLock()
		if time.Now().Before(p.expiresAt) {
			sc := p.cached
			p.mu.RUnlock()
			return sc, nil
		}
		p.mu.RUnlock()

		sc, err := p.store.Describe(ctx, p.table)
		if err != nil {
			log.Warn().Err(err).Str("table", p.table).Msg("schema unavailable, grounding on placeholder")
			// Do not cache the placeholder: the next run retries the store.
			return store.SchemaContext{Table: p.table, Vocabulary: knowledge.Wholesalers()}, nil
		}

		sc.Vocabulary = p.vocabulary(ctx)

		p.mu.Lock()
		p.cached = sc
		p.expiresAt = time.Now().Add(schemaCacheTTL)
		p.mu.Unlock()
		return sc, nil
	})
	return v.(store.SchemaContext)
}

// Invalidate drops the cache, used after a reload replaces the store.
func (p *SchemaProvider) Invalidate() {
	p.mu.Lock()
	p.expiresAt = time.Time{}
	p.mu.Unlock()
}

// vocabulary merges the static partner list with the distinct values the
// store currently holds in the designated column.
func (p *SchemaProvider) vocabulary(ctx context.Context) []string {
	merged := map[string]struct{}{}
	for _, w := range knowledge.Wholesalers() {
		merged[w] = struct{}{}
	}
	live, err := p.store.DistinctValues(ctx, p.table, p.vocabColumn, vocabularyCap)
	if err != nil {
		log.Warn().Err(err).Str("column", p.vocabColumn).Msg("live vocabulary unavailable, using static list")
	}
	for _, v := range live {
		if s := strings.TrimSpace(v); s != "" {
			merged[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(merged))
	for v := range merged {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
