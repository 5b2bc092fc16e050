// Package snapshot implements the domain repositories over the JSON file
// store, mirroring the published data layout.
package snapshot

import (
	"context"

	"github.com/mindless-league/standings/internal/domain/roster"
	"github.com/mindless-league/standings/internal/infrastructure/store"
)

const managersPath = "managers.json"

type RosterRepository struct {
	store *store.Store
}

func NewRosterRepository(s *store.Store) *RosterRepository {
	return &RosterRepository{store: s}
}

func (r *RosterRepository) Get(_ context.Context) (roster.File, bool, error) {
	var file roster.File
	found, err := r.store.Read(managersPath, &file)
	if err != nil {
		return roster.File{}, false, err
	}
	return file, found, nil
}

func (r *RosterRepository) Put(_ context.Context, file roster.File) error {
	return r.store.Write(managersPath, file)
}
