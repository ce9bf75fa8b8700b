package cache

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(cv *prometheus.CounterVec, label string) float64 {
	c, err := cv.GetMetricWithLabelValues(label)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func newInstrumentedTestCache(t *testing.T, group string) Cache {
	t.Helper()
	c, err := New("memory", ProviderConfig{Size: 10, TTL: time.Hour, Group: group})
	if err != nil {
		t.Fatalf("New instrumented cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestInstrumentedCache_Hits(t *testing.T) {
	c := newInstrumentedTestCache(t, "hits-group")

	c.Set("k", []byte("v"))
	before := counterValue(HitsTotal, "hits-group")

	_, _ = c.Get("k")

	if after := counterValue(HitsTotal, "hits-group"); after != before+1 {
		t.Errorf("hit counter moved by %.0f, want 1", after-before)
	}
}

func TestInstrumentedCache_Misses(t *testing.T) {
	c := newInstrumentedTestCache(t, "misses-group")

	before := counterValue(MissesTotal, "misses-group")

	_, _ = c.Get("absent")

	if after := counterValue(MissesTotal, "misses-group"); after != before+1 {
		t.Errorf("miss counter moved by %.0f, want 1", after-before)
	}
}

func TestInstrumentedCache_Evictions(t *testing.T) {
	var evicted []string
	onEvict := func(key string, _ []byte) {
		evicted = append(evicted, key)
	}

	c, err := New("memory", ProviderConfig{Size: 2, TTL: time.Hour, Group: "evict-group", OnEvict: onEvict})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	before := counterValue(EvictionsTotal, "evict-group")

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Set("c", []byte("3"))

	if after := counterValue(EvictionsTotal, "evict-group"); after != before+1 {
		t.Errorf("eviction counter moved by %.0f, want 1", after-before)
	}
	if len(evicted) != 1 || evicted[0] != "a" {
		t.Errorf("caller callback saw %v, want it to still fire for the evicted key", evicted)
	}
}

func TestInstrumentedCache_EntriesLazy(t *testing.T) {
	reg := prometheus.NewRegistry()
	origReg := entriesReg
	entriesReg = reg
	t.Cleanup(func() { entriesReg = origReg })

	c := newInstrumentedTestCache(t, "entries-group")

	gatherEntries := func() float64 {
		mfs, _ := reg.Gather()
		for _, mf := range mfs {
			if mf.GetName() != "cache_entries" {
				continue
			}
			for _, m := range mf.GetMetric() {
				for _, lp := range m.GetLabel() {
					if lp.GetName() == "cache" && lp.GetValue() == "entries-group" {
						return m.GetGauge().GetValue()
					}
				}
			}
		}
		return -1
	}

	if v := gatherEntries(); v != 0 {
		t.Fatalf("gauge reads %.0f before any Set", v)
	}

	c.Set("x", []byte("1"))
	c.Set("y", []byte("2"))

	if v := gatherEntries(); v != 2 {
		t.Errorf("gauge reads %.0f after two Sets, want the live count", v)
	}
}

func TestInstrumentedCache_CloseUnregistersEntries(t *testing.T) {
	reg := prometheus.NewRegistry()
	origReg := entriesReg
	entriesReg = reg
	t.Cleanup(func() { entriesReg = origReg })

	c, err := New("memory", ProviderConfig{Size: 10, TTL: time.Hour, Group: "close-group"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	entriesCollectorMu.Lock()
	_, registered := entriesCollectors["close-group"]
	entriesCollectorMu.Unlock()
	if !registered {
		t.Fatal("entries collector missing after New")
	}

	_ = c.Close()

	entriesCollectorMu.Lock()
	_, registered = entriesCollectors["close-group"]
	entriesCollectorMu.Unlock()
	if registered {
		t.Fatal("entries collector still registered after Close")
	}
}
