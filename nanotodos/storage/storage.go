// Package storage holds the pieces shared by in-process store backends:
// the persisted snapshot format and the lock manager that serialises
// access to it.
package storage

import (
	"time"

	"github.com/arthur-debert/nanotodos/types"
)

// CurrentVersion is written into every snapshot.
const CurrentVersion = "1.0"

// StoreData is the complete persisted state of a file-backed store.
type StoreData struct {
	Lists    []types.TodoList `json:"todolists"`
	Users    []types.User     `json:"users"`
	Metadata Metadata         `json:"metadata"`
}

// Metadata contains storage metadata
type Metadata struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewStoreData returns an empty snapshot stamped with now.
func NewStoreData(now time.Time) *StoreData {
	return &StoreData{
		Lists: []types.TodoList{},
		Users: []types.User{},
		Metadata: Metadata{
			Version:   CurrentVersion,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// MaxIDs returns the largest list id and the largest todo id in the
// snapshot, so an id generator can resume after them.
func (d *StoreData) MaxIDs() (maxList, maxTodo int64) {
	for _, list := range d.Lists {
		maxList = max(maxList, list.ID)
		for _, todo := range list.Todos {
			maxTodo = max(maxTodo, todo.ID)
		}
	}
	return maxList, maxTodo
}
