package models

import (
	"sync"
	"time"
)

// Session binds one live tournament state to an ID the shell can address.
// The engine assumes single-writer access per state, so every call going
// through a session must hold Mu.
type Session struct {
	ID        string           `json:"id"`
	State     *TournamentState `json:"state"`
	CreatedAt time.Time        `json:"created_at"`

	Mu sync.Mutex `json:"-"`
}
