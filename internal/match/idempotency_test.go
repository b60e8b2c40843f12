package match

import (
	"fmt"
	"testing"
)

func TestIdempotencyCacheReplay(t *testing.T) {
	c := newIdempotencyCache(4)
	c.put("k1", ActionResult{MatchID: "m", Version: 2})

	got, ok := c.get("k1")
	if !ok || got.Version != 2 {
		t.Fatalf("expected cached result, got %+v ok=%v", got, ok)
	}
	if _, ok := c.get("k2"); ok {
		t.Fatalf("unexpected hit for unknown key")
	}
}

func TestIdempotencyCacheEvictsOldest(t *testing.T) {
	c := newIdempotencyCache(3)
	for i := 0; i < 5; i++ {
		c.put(fmt.Sprintf("k%d", i), ActionResult{Version: int64(i)})
	}

	if c.len() != 3 {
		t.Fatalf("expected capacity 3, got %d", c.len())
	}
	for _, gone := range []string{"k0", "k1"} {
		if _, ok := c.get(gone); ok {
			t.Fatalf("expected %s evicted", gone)
		}
	}
	for _, kept := range []string{"k2", "k3", "k4"} {
		if _, ok := c.get(kept); !ok {
			t.Fatalf("expected %s retained", kept)
		}
	}
}

func TestIdempotencyCacheIgnoresEmptyKey(t *testing.T) {
	c := newIdempotencyCache(2)
	c.put("", ActionResult{Version: 1})
	if c.len() != 0 {
		t.Fatalf("empty keys must not be cached")
	}
}

func TestIdempotencyCacheOverwriteKeepsOrder(t *testing.T) {
	c := newIdempotencyCache(2)
	c.put("k1", ActionResult{Version: 1})
	c.put("k2", ActionResult{Version: 2})
	c.put("k1", ActionResult{Version: 9})

	if got, _ := c.get("k1"); got.Version != 9 {
		t.Fatalf("overwrite lost: %+v", got)
	}
	if c.len() != 2 {
		t.Fatalf("overwrite must not grow the cache, len %d", c.len())
	}
}
