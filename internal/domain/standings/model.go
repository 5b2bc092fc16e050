package standings

import (
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
)

// TieMode selects how tied point totals map to ranks and prize money.
type TieMode string

const (
	// TieDeterministic breaks ties by entry id and assigns sequential ranks.
	TieDeterministic TieMode = "deterministic"
	// TieSplit gives every tied entrant the same rank and an equal share of
	// the prize pool covered by the tied positions.
	TieSplit TieMode = "split"
)

// Valid reports whether the mode is one of the supported values.
func (m TieMode) Valid() bool {
	return m == TieDeterministic || m == TieSplit
}

// PrizeTable maps a rank to a payout amount. Ranks without an entry pay
// nothing. The JSON form uses string keys ("1", "2", ...).
type PrizeTable map[int]float64

// ForRank returns the payout for the given rank, zero when absent.
func (t PrizeTable) ForRank(rank int) float64 {
	return t[rank]
}

func (t PrizeTable) MarshalJSON() ([]byte, error) {
	raw := make(map[string]float64, len(t))
	for rank, amount := range t {
		raw[strconv.Itoa(rank)] = amount
	}
	return sonic.Marshal(raw)
}

func (t *PrizeTable) UnmarshalJSON(data []byte) error {
	raw := map[string]float64{}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(PrizeTable, len(raw))
	for key, amount := range raw {
		rank, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("prize table key %q is not a rank: %w", key, err)
		}
		out[rank] = amount
	}
	*t = out
	return nil
}

// Row is an unranked scoring row fed into the ranking engine.
type Row struct {
	EntryID    int    `json:"entryId"`
	PlayerName string `json:"playerName"`
	TeamName   string `json:"teamName"`
	Points     int    `json:"points"`
}

// RankedRow is a Row with its assigned rank and prize.
type RankedRow struct {
	EntryID    int     `json:"entryId"`
	PlayerName string  `json:"playerName"`
	TeamName   string  `json:"teamName"`
	Points     int     `json:"points"`
	Rank       int     `json:"rank"`
	Prize      float64 `json:"prize"`
}

// WeeklyResult is the ranked table for a single gameweek.
type WeeklyResult struct {
	GW           int         `json:"gw"`
	DeadlineTime string      `json:"deadlineTime"`
	IsFinished   bool        `json:"isFinished"`
	Rows         []RankedRow `json:"rows"`
}

// MonthlyResult is the ranked table for a configured month of gameweeks.
// GWs lists the month's full configured gameweeks; only the finished ones
// contribute points to Rows.
type MonthlyResult struct {
	Key  string      `json:"key"`
	GWs  []int       `json:"gws"`
	Rows []RankedRow `json:"rows"`
}

// SeasonRow is one entrant's season standing with its winnings breakdown.
type SeasonRow struct {
	EntryID         int     `json:"entryId"`
	PlayerName      string  `json:"playerName"`
	TeamName        string  `json:"teamName"`
	TotalPoints     int     `json:"totalPoints"`
	Rank            int     `json:"rank"`
	SeasonPrize     float64 `json:"seasonPrize"`
	WeeklyWinnings  float64 `json:"weeklyWinnings"`
	MonthlyWinnings float64 `json:"monthlyWinnings"`
	CupWinnings     float64 `json:"cupWinnings"`
	TotalWinnings   float64 `json:"totalWinnings"`
}

// SeasonFile is the derived season table.
type SeasonFile struct {
	Season        string      `json:"season"`
	LastUpdatedGW int         `json:"lastUpdatedGw"`
	Rows          []SeasonRow `json:"rows"`
}

// LatestFile is the small pointer clients poll to discover fresh data.
type LatestFile struct {
	LastFinishedGW  int    `json:"lastFinishedGw"`
	LastAvailableGW int    `json:"lastAvailableGw"`
	CurrentGW       int    `json:"currentGw"`
	GeneratedAt     string `json:"generatedAt"`
}
