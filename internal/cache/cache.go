// Package cache memoizes computed scenario results keyed by their inputs.
// The engines stay pure; the cache sits in front of them at the service
// boundary and is always optional.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/sells-group/investor-cli/internal/model"
)

// Cache stores serialized values by key. Misses and backend failures are
// both reported as "not found"; callers recompute either way.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// ScenarioKey derives a stable cache key from a scenario input and the
// rate sheet it resolves against.
func ScenarioKey(in model.ScenarioInput, sheet *model.RateSheet) string {
	h := fnv.New64a()
	enc := json.NewEncoder(h)
	_ = enc.Encode(in)
	if !sheet.Empty() {
		_ = enc.Encode(sheet)
	}
	return fmt.Sprintf("scenario:%x", h.Sum64())
}

// GetScenario fetches and decodes a cached scenario result. A nil cache
// always misses.
func GetScenario(ctx context.Context, c Cache, key string) (*model.ScenarioResult, bool) {
	if c == nil {
		return nil, false
	}
	raw, ok := c.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var res model.ScenarioResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, false
	}
	return &res, true
}

// PutScenario encodes and stores a scenario result. A nil cache is a no-op.
func PutScenario(ctx context.Context, c Cache, key string, res model.ScenarioResult, ttl time.Duration) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, string(raw), ttl)
}
