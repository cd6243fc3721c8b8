package pricing

import (
	"sync"
	"testing"

	"order-pricing-api/internal/models"
)

func sampleLines() []models.LineItem {
	return []models.LineItem{
		{Quantity: 1, UnitPrice: 100, DiscountPercent: f(10), TaxPercent: f(18)},
		{Quantity: 2, UnitPrice: 5, ExciseAmount: f(1)},
	}
}

func TestMemo_ComputeMatchesCompute(t *testing.T) {
	memo := NewMemo(8)

	want := Compute(sampleLines(), nil)
	got, hit := memo.Compute(sampleLines(), nil)
	if hit {
		t.Error("first call reported a cache hit")
	}
	if got != want {
		t.Errorf("memo.Compute() = %+v, want %+v", got, want)
	}

	again, hit := memo.Compute(sampleLines(), nil)
	if !hit {
		t.Error("second call with equal input missed the cache")
	}
	if again != want {
		t.Errorf("cached result = %+v, want %+v", again, want)
	}

	stats := memo.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Entries != 1 {
		t.Errorf("Stats() = %+v, want 1 hit, 1 miss, 1 entry", stats)
	}
}

func TestMemo_KeyIncludesOptionsAndValues(t *testing.T) {
	memo := NewMemo(8)

	withCalc, _ := memo.Compute(sampleLines(), nil)
	raw, hit := memo.Compute(sampleLines(), RawTotalsOnly())
	if hit {
		t.Error("changing the toggle hit the cache")
	}
	if raw == withCalc {
		t.Error("raw totals equal line-level totals")
	}

	changed := sampleLines()
	changed[1].Quantity = 3
	if _, hit := memo.Compute(changed, nil); hit {
		t.Error("changing a quantity hit the cache")
	}

	// nil options and an explicit true toggle resolve to the same key
	if _, hit := memo.Compute(sampleLines(), WithLineLevelCalculations(true)); !hit {
		t.Error("explicit default toggle missed the cache")
	}
}

func TestMemo_AbsentAndExplicitZeroAreDistinctKeys(t *testing.T) {
	memo := NewMemo(8)

	absent := []models.LineItem{{Quantity: 1, UnitPrice: 10}}
	explicit := []models.LineItem{{Quantity: 1, UnitPrice: 10, TaxPercent: f(0)}}

	a, _ := memo.Compute(absent, nil)
	e, hit := memo.Compute(explicit, nil)
	if hit {
		t.Error("explicit zero shared a key with an absent field")
	}
	if a != e {
		t.Errorf("absent = %+v, explicit zero = %+v", a, e)
	}
}

func TestMemo_MetadataDoesNotAffectKey(t *testing.T) {
	memo := NewMemo(8)

	lines := sampleLines()
	memo.Compute(lines, nil)

	lines[0].Description = "Renamed"
	lines[0].Warehouse = "WH-2"
	if _, hit := memo.Compute(lines, nil); !hit {
		t.Error("metadata change missed the cache")
	}
}

func TestMemo_Eviction(t *testing.T) {
	memo := NewMemo(2)

	memo.Compute([]models.LineItem{{Quantity: 1, UnitPrice: 1}}, nil)
	memo.Compute([]models.LineItem{{Quantity: 2, UnitPrice: 1}}, nil)
	memo.Compute([]models.LineItem{{Quantity: 3, UnitPrice: 1}}, nil)

	if got := memo.Stats().Entries; got != 2 {
		t.Errorf("Entries = %d, want 2", got)
	}
	if _, hit := memo.Compute([]models.LineItem{{Quantity: 1, UnitPrice: 1}}, nil); hit {
		t.Error("oldest entry was not evicted")
	}
	if _, hit := memo.Compute([]models.LineItem{{Quantity: 3, UnitPrice: 1}}, nil); !hit {
		t.Error("newest entry was evicted")
	}
}

func TestMemo_Disabled(t *testing.T) {
	for _, memo := range []*Memo{NewMemo(0), NewMemo(-5), nil} {
		got, hit := memo.Compute(sampleLines(), nil)
		if hit {
			t.Error("disabled memo reported a hit")
		}
		if want := Compute(sampleLines(), nil); got != want {
			t.Errorf("disabled memo = %+v, want %+v", got, want)
		}
		if _, hit := memo.Compute(sampleLines(), nil); hit {
			t.Error("disabled memo cached a result")
		}
	}
}

func TestMemo_CountersOnlyGrow(t *testing.T) {
	memo := NewMemo(1)
	other := []models.LineItem{{Quantity: 9, UnitPrice: 1}}

	var prev MemoStats
	for i, lines := range [][]models.LineItem{sampleLines(), sampleLines(), other, sampleLines(), other} {
		memo.Compute(lines, nil)
		stats := memo.Stats()
		if stats.Hits < prev.Hits || stats.Misses < prev.Misses {
			t.Fatalf("call %d: Stats() = %+v went below %+v", i, stats, prev)
		}
		if stats.Entries > 1 {
			t.Fatalf("call %d: Entries = %d, want at most 1", i, stats.Entries)
		}
		prev = stats
	}

	if prev.Hits != 1 || prev.Misses != 4 {
		t.Errorf("Stats() = %+v, want 1 hit and 4 misses", prev)
	}
}

func TestMemo_ConcurrentUse(t *testing.T) {
	memo := NewMemo(16)
	want := Compute(sampleLines(), nil)

	var wg sync.WaitGroup
	errs := make(chan models.Totals, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, _ := memo.Compute(sampleLines(), nil)
			if got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)

	for got := range errs {
		t.Errorf("concurrent Compute() = %+v, want %+v", got, want)
	}

	stats := memo.Stats()
	if stats.Hits+stats.Misses != 64 {
		t.Errorf("hits+misses = %d, want 64", stats.Hits+stats.Misses)
	}
	if stats.Entries != 1 {
		t.Errorf("Entries = %d, want 1", stats.Entries)
	}
}
