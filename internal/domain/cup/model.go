package cup

import "fmt"

// Stage identifies the phase a match belongs to.
type Stage string

const (
	StageGroup Stage = "group"
	StageSemi  Stage = "semi"
	StageFinal Stage = "final"
	StageThird Stage = "third"
)

// ParseStage validates a raw stage value.
func ParseStage(value string) (Stage, error) {
	switch Stage(value) {
	case StageGroup, StageSemi, StageFinal, StageThird:
		return Stage(value), nil
	}
	return "", fmt.Errorf("invalid cup stage %q", value)
}

// GroupKey names one of the two draw groups.
type GroupKey string

const (
	GroupA GroupKey = "A"
	GroupB GroupKey = "B"
)

// DecidedBy records which tie-break step settled a match.
type DecidedBy string

const (
	DecidedByGWPoints     DecidedBy = "gw_points"
	DecidedBySeasonPoints DecidedBy = "season_points"
	DecidedByRandom       DecidedBy = "random"
)

// Match is a fixture slot. Knockout slots start with nil participants and
// are filled in once the feeding stage resolves.
type Match struct {
	MatchID     string   `json:"matchId"`
	HomeEntryID *int     `json:"homeEntryId"`
	AwayEntryID *int     `json:"awayEntryId"`
	Group       GroupKey `json:"group,omitempty"`
}

// FixtureRound is one scheduled round of the draw.
type FixtureRound struct {
	Round   int     `json:"round"`
	Stage   Stage   `json:"stage"`
	GW      int     `json:"gw"`
	Matches []Match `json:"matches"`
}

// Groups holds the entry ids drawn into each group, in draw order.
type Groups struct {
	A []int `json:"A"`
	B []int `json:"B"`
}

// Draw is the persisted cup draw. It is regenerated only when the seed,
// start gameweek, or season it was built from no longer match the config.
type Draw struct {
	CupKey      string         `json:"cupKey"`
	Season      string         `json:"season"`
	GeneratedAt string         `json:"generatedAt"`
	RandomSeed  string         `json:"randomSeed"`
	StartGW     int            `json:"startGw"`
	Groups      Groups         `json:"groups"`
	Fixtures    []FixtureRound `json:"fixtures"`
}

// Stale reports whether the draw no longer matches its generating config.
func (d Draw) Stale(seed string, startGW int, season string) bool {
	return d.RandomSeed != seed || d.StartGW != startGW || d.Season != season
}

// MatchResult is a resolved (or pending) fixture. Point and winner fields
// stay nil until the match's gameweek finishes.
type MatchResult struct {
	MatchID       string     `json:"matchId"`
	Stage         Stage      `json:"stage"`
	Round         int        `json:"round"`
	GW            int        `json:"gw"`
	HomeEntryID   *int       `json:"homeEntryId"`
	AwayEntryID   *int       `json:"awayEntryId"`
	HomePoints    *int       `json:"homePoints"`
	AwayPoints    *int       `json:"awayPoints"`
	WinnerEntryID *int       `json:"winnerEntryId"`
	DecidedBy     *DecidedBy `json:"decidedBy"`
}

// LoserEntryID returns the losing side of a decided two-sided match.
func (m MatchResult) LoserEntryID() *int {
	if m.HomeEntryID == nil || m.AwayEntryID == nil || m.WinnerEntryID == nil {
		return nil
	}
	if *m.WinnerEntryID == *m.HomeEntryID {
		return m.AwayEntryID
	}
	return m.HomeEntryID
}

// ResultRound groups resolved matches by round.
type ResultRound struct {
	Round   int           `json:"round"`
	Stage   Stage         `json:"stage"`
	GW      int           `json:"gw"`
	Matches []MatchResult `json:"matches"`
}

// GroupTableRow is one entrant's line in a group table.
type GroupTableRow struct {
	EntryID int `json:"entryId"`
	Played  int `json:"played"`
	Won     int `json:"won"`
	Drawn   int `json:"drawn"`
	Lost    int `json:"lost"`
	GF      int `json:"gf"`
	GA      int `json:"ga"`
	GD      int `json:"gd"`
	Points  int `json:"points"`
}

// GroupTables holds the sorted tables per group.
type GroupTables struct {
	A []GroupTableRow `json:"A"`
	B []GroupTableRow `json:"B"`
}

// FinalRef is the summary view of one knockout match.
type FinalRef struct {
	MatchID       string `json:"matchId"`
	WinnerEntryID *int   `json:"winnerEntryId"`
}

// Finals summarizes the knockout matches.
type Finals struct {
	Semi1 *FinalRef `json:"semi1,omitempty"`
	Semi2 *FinalRef `json:"semi2,omitempty"`
	Final *FinalRef `json:"final,omitempty"`
	Third *FinalRef `json:"third,omitempty"`
}

// Placements records the podium once the knockout rounds decide it.
type Placements struct {
	ChampionEntryID *int `json:"championEntryId,omitempty"`
	RunnerUpEntryID *int `json:"runnerUpEntryId,omitempty"`
	ThirdEntryID    *int `json:"thirdEntryId,omitempty"`
}

// Results is the persisted resolution state of one cup.
type Results struct {
	CupKey      string        `json:"cupKey"`
	UpdatedAt   string        `json:"updatedAt"`
	Rounds      []ResultRound `json:"rounds"`
	GroupTables GroupTables   `json:"groupTables"`
	Finals      Finals        `json:"finals"`
	Placements  Placements    `json:"placements"`
}

// ManualWinner is a hand-entered cup payout line.
type ManualWinner struct {
	EntryID int     `json:"entryId"`
	Amount  float64 `json:"amount"`
	Note    string  `json:"note,omitempty"`
}

// ManualResult is a set of winners for a cup settled outside the engine.
type ManualResult struct {
	Winners []ManualWinner `json:"winners"`
}

// ManualResults maps cup key to hand-entered results.
type ManualResults map[string]ManualResult
