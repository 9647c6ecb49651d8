package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"advisor/internal/engine"
	"advisor/internal/model"
	"advisor/internal/repository"
)

// OutlineService handles outline library operations
type OutlineService struct {
	outlineRepo repository.OutlineRepo
}

// NewOutlineService creates a new outline service
func NewOutlineService(outlineRepo repository.OutlineRepo) *OutlineService {
	return &OutlineService{outlineRepo: outlineRepo}
}

// CreateOutline validates and stores a new outline
func (s *OutlineService) CreateOutline(ctx context.Context, outline *model.Outline) (*model.Outline, error) {
	if err := validateOutlineText(outline.Text); err != nil {
		return nil, err
	}

	if outline.ID == "" {
		outline.ID = uuid.New().String()
	}
	if err := s.outlineRepo.Create(ctx, outline); err != nil {
		return nil, fmt.Errorf("failed to create outline: %w", err)
	}

	return outline, nil
}

// GetOutline retrieves an outline by ID
func (s *OutlineService) GetOutline(ctx context.Context, id string) (*model.Outline, error) {
	return s.outlineRepo.GetByID(ctx, id)
}

// ListOutlines returns all stored outlines
func (s *OutlineService) ListOutlines(ctx context.Context) ([]*model.Outline, error) {
	return s.outlineRepo.List(ctx)
}

// UpdateOutline validates and replaces a stored outline
func (s *OutlineService) UpdateOutline(ctx context.Context, outline *model.Outline) error {
	if err := validateOutlineText(outline.Text); err != nil {
		return err
	}

	existing, err := s.outlineRepo.GetByID(ctx, outline.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("outline not found")
	}
	outline.CreatedAt = existing.CreatedAt

	return s.outlineRepo.Update(ctx, outline)
}

// DeleteOutline removes an outline
func (s *OutlineService) DeleteOutline(ctx context.Context, id string) error {
	return s.outlineRepo.Delete(ctx, id)
}

// validateOutlineText rejects outlines the parser cannot make a session from
func validateOutlineText(text string) error {
	topics := engine.ParseTopicsFromPrompt(text)
	if len(topics) == 0 {
		return fmt.Errorf("outline must contain at least one topic with questions")
	}
	return nil
}
