// Package sqlite provides the public constructor for the SQLite session
// store while keeping the implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/trailplot/internal/sqlite"
	"github.com/mesh-intelligence/trailplot/pkg/types"
)

// NewBackend creates a new SQLite session store. The store is not attached;
// call Attach with a data directory to open it.
//
// Example:
//
//	store := sqlite.NewBackend()
//	if err := store.Attach(dataDir); err != nil {
//	    return err
//	}
//	defer store.Detach()
func NewBackend() types.SessionStore {
	return sqlite.NewBackend()
}
