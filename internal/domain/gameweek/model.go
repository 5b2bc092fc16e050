package gameweek

// Event is one scoring period from the upstream bootstrap metadata.
type Event struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Finished     bool   `json:"finished"`
	IsCurrent    bool   `json:"is_current"`
	DeadlineTime string `json:"deadline_time"`
}

// Bootstrap is the upstream event calendar. Only the event list matters to
// the derivation engine.
type Bootstrap struct {
	Events []Event `json:"events"`
}

// FinishedSet returns the ids of finished gameweeks.
func (b Bootstrap) FinishedSet() map[int]bool {
	out := make(map[int]bool, len(b.Events))
	for _, event := range b.Events {
		if event.Finished {
			out[event.ID] = true
		}
	}
	return out
}

// Event returns the event with the given id, if present.
func (b Bootstrap) Event(gw int) (Event, bool) {
	for _, event := range b.Events {
		if event.ID == gw {
			return event, true
		}
	}
	return Event{}, false
}

// CurrentGW returns the id of the current event, or 0 when none is marked.
func (b Bootstrap) CurrentGW() int {
	for _, event := range b.Events {
		if event.IsCurrent {
			return event.ID
		}
	}
	return 0
}

// HistoryItem is one gameweek row from a per-entry upstream history.
type HistoryItem struct {
	Event         int `json:"event"`
	Points        int `json:"points"`
	TotalPoints   int `json:"total_points"`
	TransfersCost int `json:"event_transfers_cost"`
}

// EntryHistory is the raw per-entrant season history.
type EntryHistory struct {
	Current []HistoryItem `json:"current"`
}

// Item returns the history row for the given gameweek, if present.
func (h EntryHistory) Item(gw int) (HistoryItem, bool) {
	for _, item := range h.Current {
		if item.Event == gw {
			return item, true
		}
	}
	return HistoryItem{}, false
}

// MaxEvent returns the highest gameweek present in the history.
func (h EntryHistory) MaxEvent() int {
	max := 0
	for _, item := range h.Current {
		if item.Event > max {
			max = item.Event
		}
	}
	return max
}

// Pick is one squad slot in a live-scoring snapshot.
type Pick struct {
	Element       int  `json:"element"`
	Position      int  `json:"position"`
	Multiplier    int  `json:"multiplier"`
	IsCaptain     bool `json:"isCaptain"`
	IsViceCaptain bool `json:"isViceCaptain"`
}

// Squad is one entrant's picks for a gameweek.
type Squad struct {
	EntryID    int    `json:"entryId"`
	PlayerName string `json:"playerName"`
	TeamName   string `json:"teamName"`
	Picks      []Pick `json:"picks"`
}

// TeamsFile is the per-gameweek squad snapshot, present only once captured.
type TeamsFile struct {
	GW     int     `json:"gw"`
	Squads []Squad `json:"squads"`
}

// LiveElementStats carries the live point total for one element.
type LiveElementStats struct {
	TotalPoints int `json:"total_points"`
}

// LiveElement is one element's live scoring entry.
type LiveElement struct {
	ID    int              `json:"id"`
	Stats LiveElementStats `json:"stats"`
}

// LiveFile is the per-gameweek live element scoring snapshot.
type LiveFile struct {
	Elements []LiveElement `json:"elements"`
}

// PointsByElement indexes live totals by element id.
func (f LiveFile) PointsByElement() map[int]int {
	out := make(map[int]int, len(f.Elements))
	for _, el := range f.Elements {
		out[el.ID] = el.Stats.TotalPoints
	}
	return out
}

// PointsRow is the derived per-entrant scoring row for one gameweek.
type PointsRow struct {
	EntryID     int    `json:"entryId"`
	PlayerName  string `json:"playerName"`
	TeamName    string `json:"teamName"`
	Points      int    `json:"points"`
	TotalPoints int    `json:"totalPoints"`
}

// File is the derived per-gameweek points snapshot, rewritten every run.
type File struct {
	GW           int         `json:"gw"`
	DeadlineTime string      `json:"deadlineTime"`
	IsFinished   bool        `json:"isFinished"`
	Rows         []PointsRow `json:"rows"`
}
