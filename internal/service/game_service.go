package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"liferestart-server/internal/models"
	"liferestart-server/internal/repository"
)

const (
	birthEntryContent = "You are born. The dice of fate have been cast; the rest is up to you."

	defaultDeathReason       = "Died of unspecified causes."
	healthExhaustedReason    = "Your health gave out."
	summaryResolutionTimeout = 3 * time.Minute
)

// GameService owns the run lifecycle: talent rolls, character creation,
// turn advancement and restarts. All state mutations go through the
// session repository's Update, which serializes them per process.
type GameService struct {
	sessions repository.SessionRepository
	router   *ResolverRouter
	logger   *zap.Logger
}

// NewGameService creates a GameService.
func NewGameService(sessions repository.SessionRepository, router *ResolverRouter, logger *zap.Logger) *GameService {
	return &GameService{
		sessions: sessions,
		router:   router,
		logger:   logger.Named("GameService"),
	}
}

// RollTalents returns a fresh random draw from the talent catalog.
func (s *GameService) RollTalents() []models.Talent {
	return models.RollTalents()
}

// StartGame validates the starting allocation and talent picks, applies the
// talent stat modifiers and creates a new session in the PLAYING phase with
// the birth already logged.
func (s *GameService) StartGame(ctx context.Context, allocated models.Stats, talentIDs []string) (string, *models.GameState, error) {
	if len(talentIDs) > models.MaxTalents {
		return "", nil, ErrTooManyTalents
	}
	if allocated.HasNegative() || allocated.Total() != models.TotalStatPoints {
		return "", nil, fmt.Errorf("%w: must spend exactly %d non-negative points",
			ErrInvalidAllocation, models.TotalStatPoints)
	}
	talents, err := models.FindTalents(talentIDs)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidAllocation, err)
	}

	state := models.NewGameState()
	state.Age = 0
	state.Phase = models.PhasePlaying
	state.Stats = models.ApplyTalentModifiers(allocated, talents)
	state.Talents = talents
	state.History = append(state.History, models.LogEntry{
		Age:     0,
		Content: birthEntryContent,
		Type:    models.EntryNormal,
	})

	id, err := s.sessions.Create(ctx, state)
	if err != nil {
		return "", nil, err
	}
	s.logger.Info("Game started",
		zap.String("sessionID", id),
		zap.Int("talentCount", len(talents)),
	)

	snapshot, err := s.sessions.Snapshot(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return id, snapshot, nil
}

// Advance resolves the next year of the given session. choiceID selects one
// of the pending options; empty means a plain year. A concurrent advance on
// the same session returns ErrTurnInProgress without touching the state or
// the backend.
func (s *GameService) Advance(ctx context.Context, id, choiceID string) (*models.GameState, error) {
	var (
		promptState *models.GameState
		choiceText  string
	)
	err := s.sessions.Update(ctx, id, func(state *models.GameState) error {
		if state.Phase != models.PhasePlaying {
			return ErrGameNotPlaying
		}
		if state.IsProcessing {
			return ErrTurnInProgress
		}
		if choiceID != "" {
			for _, opt := range state.PendingChoice {
				if opt.ID == choiceID {
					choiceText = opt.Text
					break
				}
			}
			if choiceText == "" {
				s.logger.Warn("Unknown choice id, resolving as a plain year",
					zap.String("sessionID", id),
					zap.String("choiceID", choiceID),
				)
			}
		}
		state.IsProcessing = true
		promptState = copyForPrompt(state)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The backend call runs outside the session lock; only the processing
	// flag protects the session meanwhile.
	resolver, sel := s.router.Resolve(ctx)
	result := resolver.ResolveTurn(ctx, sel.Model, promptState, choiceText)

	var (
		ended      bool
		finalState *models.GameState
	)
	err = s.sessions.Update(ctx, id, func(state *models.GameState) error {
		state.IsProcessing = false
		applyTurn(state, result)
		if state.Phase == models.PhaseEnded {
			ended = true
			finalState = copyForPrompt(state)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if ended && finalState.Summary == "" {
		go s.fetchSummary(id, resolver, sel.Model, finalState)
	}

	return s.sessions.Snapshot(ctx, id)
}

// applyTurn lands a resolved TurnResult on the session state. The history
// entry, stats, achievements and phase change happen in one step so no
// reader ever sees a half-applied turn.
func applyTurn(state *models.GameState, result *models.TurnResult) {
	newAge := state.Age + 1
	state.Stats = state.Stats.ApplyChanges(result.StatChanges)

	isDeath := result.IsDeath
	if state.Stats.Health == 0 {
		isDeath = true
	}
	reason := result.DeathReason
	if isDeath && reason == "" {
		if state.Stats.Health == 0 {
			reason = healthExhaustedReason
		} else {
			reason = defaultDeathReason
		}
	}

	// The entry is tagged by what this turn produced: a death, an offered
	// choice, or a plain year.
	entryType := models.EntryNormal
	switch {
	case isDeath:
		entryType = models.EntryDeath
	case len(result.Choices) > 0:
		entryType = models.EntryChoice
	}

	entry := models.LogEntry{
		Age:     newAge,
		Content: result.Content,
		Type:    entryType,
	}
	if result.StatChanges != nil && !result.StatChanges.IsZero() {
		delta := *result.StatChanges
		entry.StatsChanged = &delta
	}
	if len(result.Achievements) > 0 {
		entry.Achievements = append([]string(nil), result.Achievements...)
	}

	state.Age = newAge
	state.History = append(state.History, entry)
	state.MergeAchievements(result.Achievements)
	state.PendingChoice = nil

	if isDeath {
		state.Phase = models.PhaseEnded
		state.DeathReason = reason
		return
	}
	if len(result.Choices) > 0 {
		state.PendingChoice = append([]models.ChoiceOption(nil), result.Choices...)
	}
}

// fetchSummary asks the backend for the epitaph once the run has ended.
// It runs detached from the request that caused the death; the front end
// polls the state until the summary shows up.
func (s *GameService) fetchSummary(id string, resolver TurnResolver, model string, finalState *models.GameState) {
	ctx, cancel := context.WithTimeout(context.Background(), summaryResolutionTimeout)
	defer cancel()

	summary := resolver.ResolveSummary(ctx, model, finalState)

	err := s.sessions.Update(ctx, id, func(state *models.GameState) error {
		if state.Phase != models.PhaseEnded || state.Summary != "" {
			return nil
		}
		state.Summary = summary
		return nil
	})
	if err != nil {
		s.logger.Warn("Failed to store life summary",
			zap.String("sessionID", id),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("Life summary stored", zap.String("sessionID", id))
}

// Restart throws the session's run away and returns it to the START phase.
func (s *GameService) Restart(ctx context.Context, id string) (*models.GameState, error) {
	err := s.sessions.Update(ctx, id, func(state *models.GameState) error {
		if state.IsProcessing {
			return ErrTurnInProgress
		}
		*state = *models.NewGameState()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Game restarted", zap.String("sessionID", id))
	return s.sessions.Snapshot(ctx, id)
}

// GetState returns a read-only snapshot of the session.
func (s *GameService) GetState(ctx context.Context, id string) (*models.GameState, error) {
	return s.sessions.Snapshot(ctx, id)
}

// copyForPrompt deep-copies the parts of the state the prompt builder and
// summary goroutine read, so they can work without holding the session.
func copyForPrompt(s *models.GameState) *models.GameState {
	out := *s
	out.Talents = append([]models.Talent(nil), s.Talents...)
	out.History = append([]models.LogEntry(nil), s.History...)
	out.Achievements = append([]string(nil), s.Achievements...)
	if s.PendingChoice != nil {
		out.PendingChoice = append([]models.ChoiceOption(nil), s.PendingChoice...)
	}
	return &out
}
