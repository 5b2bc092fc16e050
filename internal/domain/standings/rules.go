package standings

import "sort"

// RankRows orders rows by points descending with entry id as the stable
// tie-break, then assigns ranks and prizes according to the tie mode.
//
// Under TieSplit, a group of k entrants tied at rank r shares the sum of
// the prizes for ranks r..r+k-1 equally, and every member reports rank r.
// Under TieDeterministic, tied entrants receive consecutive ranks in entry
// id order and each keeps the prize for their own rank.
func RankRows(rows []Row, mode TieMode, prizes PrizeTable) []RankedRow {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		return sorted[i].EntryID < sorted[j].EntryID
	})

	ranked := make([]RankedRow, 0, len(sorted))
	index := 0
	for index < len(sorted) {
		groupPoints := sorted[index].Points
		groupEnd := index
		for groupEnd < len(sorted) && sorted[groupEnd].Points == groupPoints {
			groupEnd++
		}
		groupLen := groupEnd - index
		rank := len(ranked) + 1

		if mode == TieSplit && groupLen > 1 {
			pool := 0.0
			for offset := 0; offset < groupLen; offset++ {
				pool += prizes.ForRank(rank + offset)
			}
			share := pool / float64(groupLen)
			for _, row := range sorted[index:groupEnd] {
				ranked = append(ranked, RankedRow{
					EntryID:    row.EntryID,
					PlayerName: row.PlayerName,
					TeamName:   row.TeamName,
					Points:     row.Points,
					Rank:       rank,
					Prize:      share,
				})
			}
		} else {
			for _, row := range sorted[index:groupEnd] {
				computed := rank
				if mode == TieDeterministic {
					computed = len(ranked) + 1
				}
				ranked = append(ranked, RankedRow{
					EntryID:    row.EntryID,
					PlayerName: row.PlayerName,
					TeamName:   row.TeamName,
					Points:     row.Points,
					Rank:       computed,
					Prize:      prizes.ForRank(computed),
				})
			}
		}

		index = groupEnd
	}

	return ranked
}
