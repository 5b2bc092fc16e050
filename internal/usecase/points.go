package usecase

// PointsEntry is one entrant's scoring snapshot at a single gameweek.
type PointsEntry struct {
	Points      int
	TotalPoints int
}

// PointsIndex maps gameweek to entry id to that entrant's scoring snapshot.
// The aggregator builds it once per run; the cup resolver reads it.
type PointsIndex map[int]map[int]PointsEntry

// At returns the snapshot for an entrant at a gameweek, zero when absent.
func (p PointsIndex) At(gw, entryID int) PointsEntry {
	if byEntry, ok := p[gw]; ok {
		return byEntry[entryID]
	}
	return PointsEntry{}
}

// Set records a snapshot, allocating the per-gameweek map on first use.
func (p PointsIndex) Set(gw, entryID int, entry PointsEntry) {
	byEntry, ok := p[gw]
	if !ok {
		byEntry = make(map[int]PointsEntry)
		p[gw] = byEntry
	}
	byEntry[entryID] = entry
}
