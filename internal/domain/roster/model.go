package roster

import "fmt"

// Manager is a league entrant. Identity is the numeric entry id, which is
// stable for a season.
type Manager struct {
	EntryID    int    `json:"entryId"`
	PlayerName string `json:"playerName"`
	TeamName   string `json:"teamName"`
}

func (m Manager) Validate() error {
	if m.EntryID <= 0 {
		return fmt.Errorf("manager entry id must be greater than zero")
	}
	if m.PlayerName == "" {
		return fmt.Errorf("manager player name is required")
	}
	return nil
}

// File is the roster snapshot fetched from the upstream league.
type File struct {
	Season    string    `json:"season"`
	LeagueID  int       `json:"leagueId"`
	Managers  []Manager `json:"managers"`
	FetchedAt string    `json:"fetchedAt"`
}

// EntryIDs returns the entrant ids in roster order.
func (f File) EntryIDs() []int {
	out := make([]int, 0, len(f.Managers))
	for _, m := range f.Managers {
		out = append(out, m.EntryID)
	}
	return out
}

// ByEntryID indexes managers for display-name lookups.
func (f File) ByEntryID() map[int]Manager {
	out := make(map[int]Manager, len(f.Managers))
	for _, m := range f.Managers {
		out[m.EntryID] = m
	}
	return out
}
