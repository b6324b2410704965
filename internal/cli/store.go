package cli

import (
	"fmt"

	"github.com/mesh-intelligence/trailplot/pkg/sqlite"
	"github.com/mesh-intelligence/trailplot/pkg/types"
)

// openStore attaches a session store to dataDir.
func openStore(dataDir string) (types.SessionStore, error) {
	store := sqlite.NewBackend()
	if err := store.Attach(dataDir); err != nil {
		return nil, sysError(fmt.Errorf("attach session database: %w", err))
	}
	return store, nil
}
