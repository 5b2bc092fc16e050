package fpl

// bootstrapElement carries the element metadata the ingest keeps.
type bootstrapElement struct {
	ID          int    `json:"id"`
	WebName     string `json:"web_name"`
	TeamCode    int    `json:"team_code"`
	ElementType int    `json:"element_type"`
}

type bootstrapEvent struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Finished     bool   `json:"finished"`
	IsCurrent    bool   `json:"is_current"`
	DeadlineTime string `json:"deadline_time"`
}

type bootstrapEnvelope struct {
	Events   []bootstrapEvent   `json:"events"`
	Elements []bootstrapElement `json:"elements"`
}

type standingsMember struct {
	Entry      int    `json:"entry"`
	PlayerName string `json:"player_name"`
	EntryName  string `json:"entry_name"`
}

type standingsPage struct {
	Standings struct {
		Results []standingsMember `json:"results"`
		HasNext bool              `json:"has_next"`
	} `json:"standings"`
}

type historyItem struct {
	Event         int `json:"event"`
	Points        int `json:"points"`
	TotalPoints   int `json:"total_points"`
	TransfersCost int `json:"event_transfers_cost"`
}

type historyEnvelope struct {
	Current []historyItem `json:"current"`
}

type picksItem struct {
	Element       int  `json:"element"`
	Position      int  `json:"position"`
	Multiplier    int  `json:"multiplier"`
	IsCaptain     bool `json:"is_captain"`
	IsViceCaptain bool `json:"is_vice_captain"`
}

type picksEnvelope struct {
	Picks []picksItem `json:"picks"`
}

type liveStats struct {
	TotalPoints int `json:"total_points"`
}

type liveElement struct {
	ID    int       `json:"id"`
	Stats liveStats `json:"stats"`
}

type liveEnvelope struct {
	Elements []liveElement `json:"elements"`
}
