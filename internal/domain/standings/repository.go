package standings

import "context"

// Repository persists the derived standings artifacts.
type Repository interface {
	PutWeeklies(ctx context.Context, weeklies []WeeklyResult) error
	PutMonths(ctx context.Context, months []MonthlyResult) error
	PutSeason(ctx context.Context, season SeasonFile) error
	PutLatest(ctx context.Context, latest LatestFile) error
	GetLatest(ctx context.Context) (LatestFile, bool, error)
}
