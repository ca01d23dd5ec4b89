package normalize

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/coocood/freecache"
)

// CandidateScorer rates candidate texts. Lower scores are better.
type CandidateScorer interface {
	ScoreCandidates(ctx context.Context, texts []string) ([]float64, error)
}

// ScoreFunc adapts a single-text scoring function.
type ScoreFunc func(text string) (float64, error)

func (f ScoreFunc) ScoreCandidates(_ context.Context, texts []string) ([]float64, error) {
	scores := make([]float64, len(texts))
	for i, text := range texts {
		s, err := f(text)
		if err != nil {
			return nil, err
		}
		scores[i] = s
	}
	return scores, nil
}

// CachingScorer remembers scores per text, so repeated prompts such as
// duplicate RuCoS entities or re-runs over the same split hit the scorer once.
type CachingScorer struct {
	inner CandidateScorer
	cache *freecache.Cache
}

func NewCachingScorer(inner CandidateScorer, sizeBytes int) *CachingScorer {
	return &CachingScorer{inner: inner, cache: freecache.NewCache(sizeBytes)}
}

func (c *CachingScorer) ScoreCandidates(ctx context.Context, texts []string) ([]float64, error) {
	scores := make([]float64, len(texts))
	var missing []string
	var missingAt []int
	for i, text := range texts {
		if v, err := c.cache.Get([]byte(text)); err == nil && len(v) == 8 {
			scores[i] = math.Float64frombits(binary.LittleEndian.Uint64(v))
			continue
		}
		missing = append(missing, text)
		missingAt = append(missingAt, i)
	}
	if len(missing) == 0 {
		return scores, nil
	}

	fresh, err := c.inner.ScoreCandidates(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missing) {
		return nil, fmt.Errorf("scorer returned %d scores for %d texts", len(fresh), len(missing))
	}
	buf := make([]byte, 8)
	for j, s := range fresh {
		scores[missingAt[j]] = s
		binary.LittleEndian.PutUint64(buf, math.Float64bits(s))
		// entries larger than the cache allows are simply not kept
		_ = c.cache.Set([]byte(missing[j]), buf, 0)
	}
	return scores, nil
}
