// Package prize models the winnings ledger produced by each derivation run.
package prize

// Kind classifies a ledger item by the competition that paid it.
type Kind string

const (
	KindWeekly  Kind = "weekly"
	KindMonthly Kind = "monthly"
	KindSeason  Kind = "season"
	KindCup     Kind = "cup"
)

// LedgerItem is a single payout. GW, MonthKey, and CupKey are set only for
// the kind they belong to.
type LedgerItem struct {
	Kind     Kind    `json:"type"`
	EntryID  int     `json:"entryId"`
	Amount   float64 `json:"amount"`
	Reason   string  `json:"reason"`
	GW       int     `json:"gw,omitempty"`
	MonthKey string  `json:"monthKey,omitempty"`
	CupKey   string  `json:"cupKey,omitempty"`
}

// NewWeekly builds a weekly payout item.
func NewWeekly(gw, entryID int, amount float64, reason string) LedgerItem {
	return LedgerItem{Kind: KindWeekly, GW: gw, EntryID: entryID, Amount: amount, Reason: reason}
}

// NewMonthly builds a monthly payout item.
func NewMonthly(monthKey string, entryID int, amount float64, reason string) LedgerItem {
	return LedgerItem{Kind: KindMonthly, MonthKey: monthKey, EntryID: entryID, Amount: amount, Reason: reason}
}

// NewSeason builds a season payout item.
func NewSeason(entryID int, amount float64, reason string) LedgerItem {
	return LedgerItem{Kind: KindSeason, EntryID: entryID, Amount: amount, Reason: reason}
}

// NewCup builds a cup payout item.
func NewCup(cupKey string, entryID int, amount float64, reason string) LedgerItem {
	return LedgerItem{Kind: KindCup, CupKey: cupKey, EntryID: entryID, Amount: amount, Reason: reason}
}

// File is the persisted ledger snapshot.
type File struct {
	Items         []LedgerItem    `json:"items"`
	TotalsByEntry map[int]float64 `json:"totalsByEntryId"`
}

// Totals sums ledger amounts per entrant.
func Totals(items []LedgerItem) map[int]float64 {
	out := make(map[int]float64)
	for _, item := range items {
		out[item.EntryID] += item.Amount
	}
	return out
}

// SumByKind sums the amounts paid to one entrant for a given kind.
func SumByKind(items []LedgerItem, entryID int, kind Kind) float64 {
	total := 0.0
	for _, item := range items {
		if item.Kind == kind && item.EntryID == entryID {
			total += item.Amount
		}
	}
	return total
}
