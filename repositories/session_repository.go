package repositories

import (
	"context"
	"errors"
	"sync"

	"github.com/mediaarena/arena/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionConflict = errors.New("session id already exists")
)

// SessionRepository stores live tournament sessions. The only
// implementation is in-memory: session state is explicitly scoped to the
// process lifetime and never persisted.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

type inMemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewInMemorySessionRepository() SessionRepository {
	return &inMemorySessionRepository{
		sessions: make(map[string]*models.Session),
	}
}

func (r *inMemorySessionRepository) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[session.ID]; exists {
		return ErrSessionConflict
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *inMemorySessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (r *inMemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}
