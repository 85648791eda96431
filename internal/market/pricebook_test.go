package market

import (
	"testing"
	"time"

	"cardmarket/internal/domain"

	"github.com/shopspring/decimal"
)

var testKey = domain.CardKey{SetID: "alpha", Name: "Ember Drake"}

func TestPriceBook_Register(t *testing.T) {
	now := time.Now()

	t.Run("base price within rarity range", func(t *testing.T) {
		book := NewPriceBook(domain.NewRandomSource(7), DefaultParams())
		min := decimal.NewFromFloat(0.05)
		max := decimal.NewFromFloat(0.50)

		for i := 0; i < 200; i++ {
			key := domain.CardKey{SetID: "alpha", Name: string(rune('a' + i%26)) + string(rune('0' + i/26))}
			rec := book.Register(key, domain.RarityCommon, 1.0, now)
			if rec.Base.LessThan(min) || rec.Base.GreaterThan(max) {
				t.Fatalf("Common base %v outside [0.05, 0.50]", rec.Base)
			}
		}
	})

	t.Run("foil premium between 2x and 4x", func(t *testing.T) {
		book := NewPriceBook(domain.NewRandomSource(11), DefaultParams())
		rec := book.Register(testKey, domain.RarityRare, 1.0, now)

		ratio := rec.Foil.Div(rec.Base)
		if ratio.LessThan(decimal.NewFromInt(2)) || ratio.GreaterThan(decimal.NewFromInt(4)) {
			t.Errorf("Foil ratio %v outside [2, 4]", ratio)
		}
	})

	t.Run("idempotent registration", func(t *testing.T) {
		book := NewPriceBook(domain.NewRandomSource(3), DefaultParams())
		first := book.Register(testKey, domain.RarityCommon, 1.0, now)
		second := book.Register(testKey, domain.RarityCommon, 1.0, now)
		if first != second {
			t.Error("Re-registering must return the existing record")
		}
	})

	t.Run("set multiplier scales the spread", func(t *testing.T) {
		// With u forced to 1.0 the base hits min + spread*mult exactly.
		src := &stubSource{vals: []float64{0.999999, 0.5}}
		book := NewPriceBook(src, DefaultParams())
		rec := book.Register(testKey, domain.RarityCommon, 2.0, now)
		// min 0.05 + 0.45*~1*2 ≈ 0.95, well above the unscaled max.
		if rec.Base.LessThan(decimal.NewFromFloat(0.50)) {
			t.Errorf("Expected multiplier to push base past 0.50, got %v", rec.Base)
		}
	})
}

func TestPriceBook_Reprice(t *testing.T) {
	now := time.Now()

	t.Run("movement bounded by 15 percent", func(t *testing.T) {
		book := NewPriceBook(domain.NewRandomSource(42), DefaultParams())
		book.Register(testKey, domain.RarityRare, 1.0, now)

		for i := 0; i < 500; i++ {
			prev := book.Price(testKey, false)
			// Full demand spike against full supply: the raw price jumps,
			// the clamp must hold.
			book.Reprice(testKey, 1.0, 2.0, 1.2)
			cur := book.Price(testKey, false)

			if cur.LessThan(domain.PriceFloor) {
				t.Fatalf("Tick %d: price %v under floor", i, cur)
			}
			maxDelta := prev.Mul(decimal.NewFromFloat(0.15))
			if cur.Sub(prev).Abs().GreaterThan(maxDelta.Add(decimal.New(1, -12))) {
				t.Fatalf("Tick %d: move %v exceeds 15%% of %v", i, cur.Sub(prev).Abs(), prev)
			}
		}
	})

	t.Run("supply collapse floors immediately", func(t *testing.T) {
		book := NewPriceBook(domain.NewRandomSource(9), DefaultParams())
		book.Register(testKey, domain.RarityCommon, 1.0, now)

		ledger := NewSupplyLedger(0.005)
		for i := 0; i < 400; i++ {
			ledger.RecordOpened(testKey)
		}
		if got := ledger.Reduction(testKey); got != 0 {
			t.Fatalf("Expected reduction 0 after 400 openings, got %v", got)
		}

		// Demand and sentiment cannot rescue a zero-supply price.
		book.Reprice(testKey, ledger.Reduction(testKey), 2.0, 1.2)
		if !book.Price(testKey, false).Equal(domain.PriceFloor) {
			t.Errorf("Expected floor price, got %v", book.Price(testKey, false))
		}
	})

	t.Run("trend classification", func(t *testing.T) {
		cases := []struct {
			pct  float64
			want domain.Trend
		}{
			{3.0, domain.TrendRising},
			{2.0, domain.TrendStable},
			{-1.5, domain.TrendStable},
			{-2.5, domain.TrendFalling},
		}
		for _, c := range cases {
			if got := trendFor(decimal.NewFromFloat(c.pct)); got != c.want {
				t.Errorf("trendFor(%v) = %v, want %v", c.pct, got, c.want)
			}
		}
	})

	t.Run("foil rederived from current price", func(t *testing.T) {
		book := NewPriceBook(domain.NewRandomSource(21), DefaultParams())
		book.Register(testKey, domain.RarityMythic, 1.0, now)

		for i := 0; i < 50; i++ {
			book.Reprice(testKey, 1.0, 1.0, 1.0)
			rec := book.Record(testKey)
			ratio := rec.Foil.Div(rec.Current)
			if ratio.LessThan(decimal.NewFromInt(2)) || ratio.GreaterThan(decimal.NewFromInt(4)) {
				t.Fatalf("Foil ratio %v outside [2, 4] on tick %d", ratio, i)
			}
		}
	})

	t.Run("unknown key is a silent no-op", func(t *testing.T) {
		book := NewPriceBook(domain.NewRandomSource(1), DefaultParams())
		book.Reprice(domain.CardKey{SetID: "ghost", Name: "Nobody"}, 1, 1, 1)
		if !book.Price(domain.CardKey{SetID: "ghost", Name: "Nobody"}, false).IsZero() {
			t.Error("Unknown key must price at zero")
		}
	})
}

func TestSupplyLedger_Monotonic(t *testing.T) {
	ledger := NewSupplyLedger(0.005)

	prev := int64(0)
	for i := 0; i < 100; i++ {
		ledger.RecordOpened(testKey)
		rec := ledger.Record(testKey)
		if rec.TotalOpened <= prev {
			t.Fatalf("TotalOpened must strictly grow, got %d after %d", rec.TotalOpened, prev)
		}
		prev = rec.TotalOpened
	}

	if r := ledger.Reduction(testKey); r != 0.5 {
		t.Errorf("Expected reduction 0.5 after 100 openings at 0.005, got %v", r)
	}

	t.Run("unseen card has full supply factor", func(t *testing.T) {
		if r := ledger.Reduction(domain.CardKey{SetID: "x", Name: "y"}); r != 1.0 {
			t.Errorf("Expected 1.0, got %v", r)
		}
	})
}
