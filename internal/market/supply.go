package market

import "cardmarket/internal/domain"

// SupplyLedger tracks cumulative pack-opening counts per card. Counts only
// ever grow; there is no decrement path.
type SupplyLedger struct {
	impact  float64
	records map[domain.CardKey]*domain.SupplyRecord
}

// NewSupplyLedger creates an empty ledger with the given impact constant.
func NewSupplyLedger(impact float64) *SupplyLedger {
	return &SupplyLedger{
		impact:  impact,
		records: make(map[domain.CardKey]*domain.SupplyRecord),
	}
}

// Ensure lazily creates the record for a card.
func (l *SupplyLedger) Ensure(key domain.CardKey) *domain.SupplyRecord {
	rec, ok := l.records[key]
	if !ok {
		rec = &domain.SupplyRecord{Key: key}
		l.records[key] = rec
	}
	return rec
}

// RecordOpened counts one physical copy drawn from a pack. Foil and
// non-foil copies weigh the same.
func (l *SupplyLedger) RecordOpened(key domain.CardKey) {
	rec := l.Ensure(key)
	rec.TotalOpened++
	rec.MarketSupply++
}

// Reduction returns the supply price factor for a card: 1.0 for unseen
// cards, decaying toward 0 as copies flood the market.
func (l *SupplyLedger) Reduction(key domain.CardKey) float64 {
	rec, ok := l.records[key]
	if !ok {
		return 1.0
	}
	return rec.Reduction(l.impact)
}

// Record returns the supply record, or nil for unknown keys.
func (l *SupplyLedger) Record(key domain.CardKey) *domain.SupplyRecord {
	return l.records[key]
}

// Each visits every supply record.
func (l *SupplyLedger) Each(fn func(*domain.SupplyRecord)) {
	for _, rec := range l.records {
		fn(rec)
	}
}
