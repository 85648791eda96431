package market

import (
	"testing"
	"time"

	"cardmarket/internal/domain"

	"github.com/shopspring/decimal"
)

func testRecord(rarity domain.Rarity) *domain.PriceRecord {
	price := decimal.NewFromFloat(2.00)
	return &domain.PriceRecord{
		Key:     testKey,
		Rarity:  rarity,
		Base:    price,
		Current: price,
		Foil:    price.Mul(decimal.NewFromInt(3)),
	}
}

func TestListingBook_BucketCap(t *testing.T) {
	book := NewListingBook(&stubSource{vals: []float64{0.0}}, DefaultParams())
	rec := testRecord(domain.RarityCommon)
	now := time.Now()

	// Chance 0.0 < 0.8 hits every slot roll; repeated fills must still
	// respect the cap.
	for i := 0; i < 3; i++ {
		book.FillSlots(rec, now)
		if got := book.BucketLen(testKey); got > domain.MaxListingsPerCard {
			t.Fatalf("Bucket size %d over cap", got)
		}
	}
	if got := book.BucketLen(testKey); got != domain.MaxListingsPerCard {
		t.Errorf("Expected full bucket, got %d", got)
	}
}

func TestListingBook_Expiry(t *testing.T) {
	book := NewListingBook(domain.NewRandomSource(13), DefaultParams())
	now := time.Now()

	short := &domain.Listing{Key: testKey, Price: decimal.NewFromInt(1), Quantity: 1, ListedAt: now, Duration: time.Hour}
	long := &domain.Listing{Key: testKey, Price: decimal.NewFromInt(2), Quantity: 1, ListedAt: now, Duration: 48 * time.Hour}
	book.Add(short)
	book.Add(long)

	expired := book.ExpireListings(now.Add(2 * time.Hour))
	if len(expired) != 1 || expired[0] != short {
		t.Fatalf("Expected exactly the short listing to expire, got %d", len(expired))
	}
	if book.BucketLen(testKey) != 1 {
		t.Errorf("Expected 1 surviving listing, got %d", book.BucketLen(testKey))
	}
}

func TestListingBook_AvailableSortedAndFiltered(t *testing.T) {
	book := NewListingBook(domain.NewRandomSource(13), DefaultParams())
	now := time.Now()

	add := func(price float64, foil bool) *domain.Listing {
		l := &domain.Listing{
			Key: testKey, Price: decimal.NewFromFloat(price), Quantity: 1,
			IsFoil: foil, ListedAt: now, Duration: 24 * time.Hour,
		}
		book.Add(l)
		return l
	}
	add(0.80, false)
	add(1.20, false)
	add(0.95, true)

	t.Run("sorted ascending", func(t *testing.T) {
		view := book.Available(testKey, nil)
		if len(view) != 3 {
			t.Fatalf("Expected 3 listings, got %d", len(view))
		}
		for i := 1; i < len(view); i++ {
			if view[i].Price.LessThan(view[i-1].Price) {
				t.Fatal("View must be sorted ascending by price")
			}
		}
	})

	t.Run("foil filter", func(t *testing.T) {
		foil := true
		view := book.Available(testKey, &foil)
		if len(view) != 1 || !view[0].IsFoil {
			t.Fatalf("Expected only the foil listing, got %d", len(view))
		}
	})

	t.Run("unknown key yields empty view", func(t *testing.T) {
		if len(book.Available(domain.CardKey{SetID: "x", Name: "y"}, nil)) != 0 {
			t.Error("Expected empty view")
		}
	})
}

func TestListingBook_IdentityRemoval(t *testing.T) {
	book := NewListingBook(domain.NewRandomSource(13), DefaultParams())
	now := time.Now()

	// Two listings with identical fields: removal must hit exactly the
	// object resolved from the sorted view, not its twin.
	a := &domain.Listing{Key: testKey, Price: decimal.NewFromFloat(0.80), Quantity: 1, ListedAt: now, Duration: time.Hour}
	b := &domain.Listing{Key: testKey, Price: decimal.NewFromFloat(0.80), Quantity: 1, ListedAt: now, Duration: time.Hour}
	book.Add(a)
	book.Add(b)

	if !book.Remove(b) {
		t.Fatal("Expected removal to succeed")
	}
	remaining := book.Available(testKey, nil)
	if len(remaining) != 1 || remaining[0] != a {
		t.Error("Wrong listing removed")
	}
	if book.Remove(b) {
		t.Error("Removing an already removed listing must fail")
	}
}

func TestListingBook_AmbientBuys(t *testing.T) {
	params := DefaultParams()
	book := NewListingBook(domain.NewRandomSource(99), params)
	now := time.Now()

	for i := 0; i < 100; i++ {
		key := domain.CardKey{SetID: "alpha", Name: string(rune('a'+i%26)) + string(rune('0'+i/26))}
		for j := 0; j < 4; j++ {
			book.Add(&domain.Listing{
				Key: key, Price: decimal.NewFromFloat(1.00), Quantity: 1,
				ListedAt: now, Duration: 24 * time.Hour,
			})
		}
	}

	before := book.Len()
	bought := book.AmbientBuys()
	after := book.Len()

	if len(bought) == 0 {
		t.Fatal("Expected some ambient buys on a 400-listing market")
	}
	if before-after != len(bought) {
		t.Errorf("Removed %d but reported %d buys", before-after, len(bought))
	}
	// 1-3% of 400 is 4-12.
	if len(bought) < 4 || len(bought) > 12 {
		t.Errorf("Expected 4..12 ambient buys, got %d", len(bought))
	}
}

func TestListingBook_GeneratedListingShape(t *testing.T) {
	book := NewListingBook(domain.NewRandomSource(31), DefaultParams())
	rec := testRecord(domain.RarityCommon)
	now := time.Now()

	created := book.FillSlots(rec, now)
	if len(created) == 0 {
		t.Fatal("Expected listings for a common at 80% chance")
	}
	for _, l := range created {
		if l.Price.LessThan(domain.PriceFloor) {
			t.Errorf("Listing price %v under floor", l.Price)
		}
		if l.Quantity < 1 {
			t.Errorf("Listing quantity %d under 1", l.Quantity)
		}
		if l.Duration <= 0 {
			t.Error("Listing duration must be positive")
		}
		switch l.SellerType {
		case domain.TraderCasual, domain.TraderFlipper, domain.TraderCollector, domain.TraderWhale:
		default:
			t.Errorf("Unexpected seller type %s", l.SellerType)
		}
	}
}
