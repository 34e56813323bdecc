// Package persist abstracts where a user's planner data lives: a local
// sqlite key-value store, or a remote sync endpoint reached with a bearer
// token. The backend is chosen once at startup and never re-evaluated.
package persist

import (
	"github.com/mahamantras2024-ux/Study-planner/internal/plan"
	"github.com/mahamantras2024-ux/Study-planner/internal/timer"
)

// Backend is the persistence surface the domain store writes through.
//
// Load methods never fail on absent or corrupt data; they return seeded
// defaults so the planner stays usable. They do fail on transport errors
// (remote mode), and callers are expected to fall back to defaults and
// surface the error as a sync status.
type Backend interface {
	LoadItems(user string) ([]plan.Item, error)
	SaveItems(user string, items []plan.Item) error

	LoadTimer(user string) (timer.State, error)
	SaveTimer(user string, state timer.State) error

	Close() error
}

// Choose selects the backend for the process lifetime: remote when an API
// base is configured, the local store otherwise. The remote backend keeps
// timer state and the auth token in the local store either way.
func Choose(apiBase, token string, local *Local) Backend {
	if apiBase == "" {
		return local
	}
	return NewRemote(apiBase, token, local)
}
