package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"liferestart-server/internal/models"
)

// Compile-time check to ensure memorySessionRepository implements SessionRepository.
var _ SessionRepository = (*memorySessionRepository)(nil)

// memorySessionRepository keeps game sessions in process memory. Runs are
// ephemeral; a process restart discards them.
type memorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*models.GameState
	logger   *zap.Logger
}

// NewMemorySessionRepository creates an in-memory SessionRepository.
func NewMemorySessionRepository(logger *zap.Logger) SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]*models.GameState),
		logger:   logger.Named("MemorySessionRepo"),
	}
}

func (r *memorySessionRepository) Create(_ context.Context, state *models.GameState) (string, error) {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = state
	r.mu.Unlock()
	r.logger.Debug("Created game session", zap.String("sessionID", id))
	return id, nil
}

func (r *memorySessionRepository) Snapshot(_ context.Context, id string) (*models.GameState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return copyState(state), nil
}

func (r *memorySessionRepository) Update(_ context.Context, id string, fn func(*models.GameState) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	return fn(state)
}

// copyState deep-copies the slices so snapshots stay immutable even while
// a turn lands on the live state.
func copyState(s *models.GameState) *models.GameState {
	out := *s
	out.Talents = append([]models.Talent(nil), s.Talents...)
	out.History = append([]models.LogEntry(nil), s.History...)
	out.Achievements = append([]string(nil), s.Achievements...)
	if s.PendingChoice != nil {
		out.PendingChoice = append([]models.ChoiceOption(nil), s.PendingChoice...)
	}
	return &out
}
