package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"advisor/internal/cache"
	"advisor/internal/engine"
	"advisor/internal/model"
	"advisor/internal/repository"
)

// SessionService handles session lifecycle operations
type SessionService struct {
	sessionRepo  repository.SessionRepo
	outlineRepo  repository.OutlineRepo
	sessionCache cache.SessionCache
	authSvc      *AuthService
	broadcaster  Broadcaster
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repository.SessionRepo,
	outlineRepo repository.OutlineRepo,
	sessionCache cache.SessionCache,
	authSvc *AuthService,
) *SessionService {
	return &SessionService{
		sessionRepo:  sessionRepo,
		outlineRepo:  outlineRepo,
		sessionCache: sessionCache,
		authSvc:      authSvc,
	}
}

// SetBroadcaster injects the WebSocket hub (called after both exist)
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateSessionResponse is returned on session creation
type CreateSessionResponse struct {
	Session *model.Session `json:"session"`
	Token   string         `json:"token"`
}

// CreateSession builds a fresh elicitation state from an outline and persists
// it. An empty outlineID uses the built-in business-model outline. Company
// profile data, when given, pre-fills questions before the first message.
func (s *SessionService) CreateSession(ctx context.Context, req *model.CreateSessionRequest) (*CreateSessionResponse, error) {
	outlineText := engine.DefaultOutline
	if req.OutlineID != "" {
		outline, err := s.outlineRepo.GetByID(ctx, req.OutlineID)
		if err != nil {
			return nil, fmt.Errorf("failed to get outline: %w", err)
		}
		if outline == nil {
			return nil, fmt.Errorf("outline not found")
		}
		outlineText = outline.Text
	}

	topics := engine.ParseTopicsFromPrompt(outlineText)
	if len(topics) == 0 {
		return nil, fmt.Errorf("outline has no topics")
	}

	state := engine.NewState(topics)
	if req.CompanyData != nil {
		cd := req.CompanyData.Clone()
		state.CompanyData = &cd
		state = engine.HydrateFromCompanyData(state)
	}

	session := &model.Session{
		ID:        uuid.New().String(),
		OutlineID: req.OutlineID,
		State:     state,
	}

	// Persist to MongoDB
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Cache in Redis
	if err := s.sessionCache.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to cache session: %w", err)
	}

	token, err := s.authSvc.GenerateSessionToken(session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &CreateSessionResponse{Session: session, Token: token}, nil
}

// ImportSession creates a brand-new session from an exported snapshot.
// Derived fields are recomputed on import; invalid snapshots are rejected.
func (s *SessionService) ImportSession(ctx context.Context, raw []byte) (*CreateSessionResponse, error) {
	state := engine.ImportModelState(raw)
	if state == nil {
		return nil, fmt.Errorf("snapshot is not a valid model state export")
	}

	session := &model.Session{
		ID:    uuid.New().String(),
		State: engine.RefreshNarratives(*state),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if err := s.sessionCache.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to cache session: %w", err)
	}

	token, err := s.authSvc.GenerateSessionToken(session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &CreateSessionResponse{Session: session, Token: token}, nil
}

// GetSession retrieves a session, cache first then MongoDB
func (s *SessionService) GetSession(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.sessionCache.Get(ctx, id)
	if err == nil && session != nil {
		return session, nil
	}

	session, err = s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	// Backfill the cache on a miss
	_ = s.sessionCache.Set(ctx, session)

	return session, nil
}

// ListSessions returns recent sessions, newest first
func (s *SessionService) ListSessions(ctx context.Context) ([]*model.Session, error) {
	return s.sessionRepo.List(ctx, 50)
}

// DeleteSession removes a session from both stores and closes any WebSocket
// clients still attached to it.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.sessionCache.Delete(ctx, id); err != nil {
		return err
	}
	if s.broadcaster != nil {
		s.broadcaster.DisconnectSession(id)
	}
	return nil
}
