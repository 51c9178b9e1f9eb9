package domain

// EnrichedEntry is a display-ready cart line: snapshot fields joined with
// live catalog data. Never persisted.
type EnrichedEntry struct {
	ProductID int64
	Title     string
	Price     float64
	Quantity  int
	Image     []byte
}

// EnrichedCart is rebuilt in full on every snapshot change, never patched.
type EnrichedCart struct {
	Entries []EnrichedEntry
	Total   float64
}

func EmptyEnrichedCart() EnrichedCart {
	return EnrichedCart{Entries: []EnrichedEntry{}, Total: 0}
}
