package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"advisor/internal/cache"
	"advisor/internal/engine"
	"advisor/internal/model"
	"advisor/internal/repository"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionBusy     = errors.New("another update for this session is in progress")
	ErrInvalidSnapshot = errors.New("snapshot is not a valid model state export")
)

// AdvisorService runs the elicitation loop around the pure engine: it loads
// state, applies one message as a single transaction, persists the result and
// pushes progress to connected clients. All state math lives in the engine;
// this layer only sequences I/O around it.
type AdvisorService struct {
	sessionRepo  repository.SessionRepo
	sessionCache cache.SessionCache
	updateLock   cache.UpdateLock
	assistant    *AssistantService
	broadcaster  Broadcaster
}

// NewAdvisorService creates a new advisor service
func NewAdvisorService(
	sessionRepo repository.SessionRepo,
	sessionCache cache.SessionCache,
	updateLock cache.UpdateLock,
	assistant *AssistantService,
) *AdvisorService {
	return &AdvisorService{
		sessionRepo:  sessionRepo,
		sessionCache: sessionCache,
		updateLock:   updateLock,
		assistant:    assistant,
	}
}

// SetBroadcaster injects the WebSocket hub (called after both exist)
func (s *AdvisorService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// HandleMessage applies one user message to the session state. Updates for a
// session are serialized through a Redis lock; concurrent callers get
// ErrSessionBusy rather than a partially applied turn.
func (s *AdvisorService) HandleMessage(ctx context.Context, sessionID string, req *model.MessageRequest) (*model.MessageResponse, error) {
	ok, err := s.updateLock.Acquire(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !ok {
		return nil, ErrSessionBusy
	}
	defer s.updateLock.Release(ctx, sessionID)

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	topicID := req.TopicID
	if topicID == "" {
		topicID = session.State.ActiveTopicID
	}

	hints := engine.DeriveCrossTopicHints(session.State.CrossSignals)
	state := engine.UpdateStateFromUserMessage(session.State, engine.UpdateInput{
		ActiveTopicID: topicID,
		UserMessage:   req.Text,
		CrossHints:    hints,
	})
	state = engine.RefreshNarratives(state)
	session.State = state

	if err := s.persist(ctx, session); err != nil {
		return nil, err
	}

	resp := s.buildResponse(ctx, session)
	s.pushProgress(session)
	return resp, nil
}

// SetActiveTopic switches the session's active topic. Unknown topic IDs
// leave the state unchanged.
func (s *AdvisorService) SetActiveTopic(ctx context.Context, sessionID, topicID string) (*model.MessageResponse, error) {
	ok, err := s.updateLock.Acquire(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !ok {
		return nil, ErrSessionBusy
	}
	defer s.updateLock.Release(ctx, sessionID)

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.State = engine.SetActiveTopic(session.State, topicID)
	if err := s.persist(ctx, session); err != nil {
		return nil, err
	}

	resp := s.buildResponse(ctx, session)
	s.pushProgress(session)
	return resp, nil
}

// Hydrate replaces the session's company profile and re-derives pre-filled
// evidence from it.
func (s *AdvisorService) Hydrate(ctx context.Context, sessionID string, data *model.CompanyData) (*model.MessageResponse, error) {
	ok, err := s.updateLock.Acquire(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !ok {
		return nil, ErrSessionBusy
	}
	defer s.updateLock.Release(ctx, sessionID)

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state := session.State.Clone()
	if data != nil {
		cd := data.Clone()
		state.CompanyData = &cd
	}
	state = engine.HydrateFromCompanyData(state)
	state = engine.RefreshNarratives(state)
	session.State = state

	if err := s.persist(ctx, session); err != nil {
		return nil, err
	}

	resp := s.buildResponse(ctx, session)
	s.pushProgress(session)
	return resp, nil
}

// NextQuestion returns the deterministic next prompt for the active topic
func (s *AdvisorService) NextQuestion(ctx context.Context, sessionID string) (*model.NextQuestion, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next := engine.BuildNextQuestion(session.State, session.State.ActiveTopicID)
	return &next, nil
}

// Preview builds the 6-month cash-flow projection from current state
func (s *AdvisorService) Preview(ctx context.Context, sessionID string) (*model.CashFlowPreview, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	preview := engine.BuildCashFlowPreview(session.State)
	return &preview, nil
}

// Export serializes the session state as a portable snapshot
func (s *AdvisorService) Export(ctx context.Context, sessionID string) ([]byte, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	snapshot := engine.ExportModelState(session.State)
	return json.MarshalIndent(snapshot, "", "  ")
}

// Import replaces the session state with an imported snapshot. Derived
// fields in the snapshot are ignored and recomputed; invalid snapshots are
// rejected without touching the session.
func (s *AdvisorService) Import(ctx context.Context, sessionID string, raw []byte) (*model.MessageResponse, error) {
	ok, err := s.updateLock.Acquire(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !ok {
		return nil, ErrSessionBusy
	}
	defer s.updateLock.Release(ctx, sessionID)

	state := engine.ImportModelState(raw)
	if state == nil {
		return nil, ErrInvalidSnapshot
	}

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.State = engine.RefreshNarratives(*state)
	if err := s.persist(ctx, session); err != nil {
		return nil, err
	}

	resp := s.buildResponse(ctx, session)
	s.pushProgress(session)
	return resp, nil
}

func (s *AdvisorService) loadSession(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.sessionCache.Get(ctx, id)
	if err == nil && session != nil {
		return session, nil
	}

	session, err = s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *AdvisorService) persist(ctx context.Context, session *model.Session) error {
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	if err := s.sessionCache.Set(ctx, session); err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}
	return nil
}

func (s *AdvisorService) buildResponse(ctx context.Context, session *model.Session) *model.MessageResponse {
	next := engine.BuildNextQuestion(session.State, session.State.ActiveTopicID)

	topicName := ""
	if t := session.State.TopicByID(session.State.ActiveTopicID); t != nil {
		topicName = t.Name
	}

	topics := topicProgress(session.State)
	// Only the active topic's narrative gets an AI polish; persisted state
	// keeps the deterministic version.
	for i := range topics {
		if topics[i].ID == session.State.ActiveTopicID && topics[i].Narrative != "" {
			topics[i].Narrative = s.assistant.PolishNarrative(ctx, topics[i].Name, topics[i].Narrative)
		}
	}

	return &model.MessageResponse{
		Reply:                s.assistant.PhraseReply(ctx, topicName, next),
		NextQuestion:         next,
		Topics:               topics,
		ConsecutiveFollowups: session.State.ConsecutiveFollowups,
	}
}

func (s *AdvisorService) pushProgress(session *model.Session) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToSession(session.ID, "topic_progress", topicProgress(session.State))
}

func topicProgress(state model.ModelState) []model.TopicProgress {
	out := make([]model.TopicProgress, len(state.Topics))
	for i, t := range state.Topics {
		out[i] = model.TopicProgress{
			ID:            t.ID,
			Name:          t.Name,
			CompletionPct: t.CompletionPct,
			ReadyToModel:  t.ReadyToModel,
			Narrative:     t.Narrative,
		}
	}
	return out
}
