package framework

import (
	"math"
	"strconv"
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// CachedEvaluator memoizes evaluations of a deterministic Evaluator.
// Evaluator latency dominates the wall-clock cost of an optimization run,
// and elitist selection regularly re-encounters identical decision vectors,
// so caching is transparent to the algorithm's observable behavior.
type CachedEvaluator struct {
	inner Evaluator
	cache *gocache.Cache
	hits  int
	calls int
}

func NewCachedEvaluator(inner Evaluator) *CachedEvaluator {
	return &CachedEvaluator{
		inner: inner,
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

func (c *CachedEvaluator) Evaluate(x []float64) Evaluation {
	c.calls++
	key := vectorKey(x)
	if v, ok := c.cache.Get(key); ok {
		c.hits++
		return v.(Evaluation)
	}
	res := c.inner.Evaluate(x)
	c.cache.Set(key, res, gocache.NoExpiration)
	return res
}

// Stats returns the total number of Evaluate calls and how many were
// served from the cache.
func (c *CachedEvaluator) Stats() (calls, hits int) {
	return c.calls, c.hits
}

// vectorKey encodes the exact bit pattern of every component, so two
// vectors map to the same key only when they are bitwise identical.
func vectorKey(x []float64) string {
	var b strings.Builder
	for i, v := range x {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
	}
	return b.String()
}
