package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/gameweek-picks/internal/domain/match"
	basecache "github.com/riskibarqy/gameweek-picks/internal/platform/cache"
	"github.com/riskibarqy/gameweek-picks/internal/usecase"
)

const matchesKeyPrefix = "matches:gw:"

// MatchProvider caches gameweek fixtures in front of the upstream provider.
// Gameweeks whose matches are all finished are kept for finishedTTL, others
// for the store default. Failed loads are not cached.
type MatchProvider struct {
	next        usecase.MatchProvider
	cache       *basecache.Store
	finishedTTL time.Duration
}

func NewMatchProvider(next usecase.MatchProvider, cache *basecache.Store, finishedTTL time.Duration) *MatchProvider {
	return &MatchProvider{next: next, cache: cache, finishedTTL: finishedTTL}
}

func (p *MatchProvider) ListMatches(ctx context.Context, gameweek int) ([]match.Match, error) {
	v, err := p.cache.GetOrLoad(ctx, matchesKey(gameweek), func(ctx context.Context) (any, time.Duration, error) {
		items, err := p.next.ListMatches(ctx, gameweek)
		if err != nil {
			return nil, 0, err
		}
		return append([]match.Match(nil), items...), p.ttlFor(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

// Refreshing returns a provider that always reloads from upstream, for
// background refresh jobs. A failed reload leaves the cached entry in place.
func (p *MatchProvider) Refreshing() *RefreshingMatchProvider {
	return &RefreshingMatchProvider{parent: p}
}

type RefreshingMatchProvider struct {
	parent *MatchProvider
}

func (r *RefreshingMatchProvider) ListMatches(ctx context.Context, gameweek int) ([]match.Match, error) {
	items, err := r.parent.next.ListMatches(ctx, gameweek)
	if err != nil {
		return nil, err
	}

	stored := append([]match.Match(nil), items...)
	r.parent.cache.SetWithTTL(ctx, matchesKey(gameweek), stored, r.parent.ttlFor(stored))
	return append([]match.Match(nil), items...), nil
}

// ttlFor returns zero, the store default, unless every match is finished.
func (p *MatchProvider) ttlFor(items []match.Match) time.Duration {
	if match.AllFinished(items) {
		return p.finishedTTL
	}
	return 0
}

func matchesKey(gameweek int) string {
	return matchesKeyPrefix + strconv.Itoa(gameweek)
}
