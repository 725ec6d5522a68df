package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mediaarena/arena/brackets"
	"github.com/mediaarena/arena/models"
	"github.com/mediaarena/arena/repositories"
)

// CreateSessionInput is the shell's request to start a tournament.
type CreateSessionInput struct {
	Mode        models.Mode   `json:"mode"`
	TotalRounds int           `json:"total_rounds"`
	Items       []models.Item `json:"items"`
}

// SessionService owns the live sessions: it creates them, serializes
// engine calls per session and pushes each applied vote's view to the
// session's spectators.
type SessionService interface {
	Create(ctx context.Context, input CreateSessionInput) (*models.Session, *models.MatchView, error)
	CurrentView(ctx context.Context, sessionID string) (*models.MatchView, error)
	Vote(ctx context.Context, sessionID string, outcome models.Outcome) (*models.MatchView, error)
	Ranking(ctx context.Context, sessionID string) ([]models.RankingRow, error)
	Delete(ctx context.Context, sessionID string) error
}

type sessionService struct {
	sessionRepo        repositories.SessionRepository
	engine             TournamentService
	hub                *brackets.Hub
	defaultTotalRounds int
	logger             *slog.Logger
}

func NewSessionService(
	sessionRepo repositories.SessionRepository,
	engine TournamentService,
	hub *brackets.Hub,
	defaultTotalRounds int,
	logger *slog.Logger,
) SessionService {
	return &sessionService{
		sessionRepo:        sessionRepo,
		engine:             engine,
		hub:                hub,
		defaultTotalRounds: defaultTotalRounds,
		logger:             logger,
	}
}

func (s *sessionService) Create(ctx context.Context, input CreateSessionInput) (*models.Session, *models.MatchView, error) {
	totalRounds := input.TotalRounds
	if totalRounds == 0 && input.Mode == models.ModeRatingRoundRobin {
		totalRounds = s.defaultTotalRounds
	}

	state, view, err := s.engine.StartTournament(input.Items, input.Mode, TournamentConfig{TotalRounds: totalRounds})
	if err != nil {
		return nil, nil, err
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		State:     state,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Info("session created",
		slog.String("session_id", session.ID),
		slog.String("mode", string(input.Mode)),
		slog.Int("items", len(input.Items)))
	return session, view, nil
}

func (s *sessionService) CurrentView(ctx context.Context, sessionID string) (*models.MatchView, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()
	return s.engine.NextMatchView(session.State)
}

func (s *sessionService) Vote(ctx context.Context, sessionID string, outcome models.Outcome) (*models.MatchView, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// The engine expects single-writer access per state; the lock is the
	// shell's end of that contract. Broadcasting inside the same critical
	// section keeps the spectator feed in vote order.
	session.Mu.Lock()
	defer session.Mu.Unlock()

	view, err := s.engine.ApplyVote(session.State, outcome)
	if err != nil {
		return nil, err
	}

	messageType := brackets.MessageMatchUpdated
	if view.Completed {
		messageType = brackets.MessageTournamentCompleted
	}
	s.hub.BroadcastToRoom(sessionID, brackets.WebSocketMessage{
		Type:    messageType,
		Payload: view,
		RoomID:  sessionID,
	})
	return view, nil
}

func (s *sessionService) Ranking(ctx context.Context, sessionID string) ([]models.RankingRow, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()
	return s.engine.ComputeRanking(session.State)
}

func (s *sessionService) Delete(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info("session deleted", slog.String("session_id", sessionID))
	return nil
}
