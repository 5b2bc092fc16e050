package gameweek

import "context"

// Repository provides access to raw upstream snapshots and the derived
// per-gameweek points files.
type Repository interface {
	GetBootstrap(ctx context.Context) (Bootstrap, error)
	PutBootstrap(ctx context.Context, b Bootstrap) error

	GetEntryHistory(ctx context.Context, entryID int) (EntryHistory, error)
	PutEntryHistory(ctx context.Context, entryID int, h EntryHistory) error

	GetTeams(ctx context.Context, gw int) (TeamsFile, bool, error)
	PutTeams(ctx context.Context, f TeamsFile) error

	GetLive(ctx context.Context, gw int) (LiveFile, bool, error)
	PutLive(ctx context.Context, gw int, f LiveFile) error

	PutGameweekFile(ctx context.Context, f File) error
}
