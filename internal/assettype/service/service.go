package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/chrisstorey/community-building-manager/internal/assettype/models"
	"github.com/chrisstorey/community-building-manager/internal/work/template"
	dErrors "github.com/chrisstorey/community-building-manager/pkg/domain-errors"
	"github.com/chrisstorey/community-building-manager/pkg/platform/sentinel"
)

// Store is the persistence boundary for asset types.
type Store interface {
	Create(ctx context.Context, at *models.AssetType) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.AssetType, error)
	List(ctx context.Context, offset, limit int) ([]models.AssetType, error)
}

// Service manages asset type definitions and template previews.
type Service struct {
	store    Store
	renderer goldmark.Markdown
}

func New(store Store) *Service {
	return &Service{
		store: store,
		// GFM covers the strikethrough/table/tasklist syntax admins paste in
		// from existing checklists. The renderer is stateless and safe to
		// share across requests.
		renderer: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Create validates the template structure before the asset type is stored so
// a malformed checklist is rejected at definition time, not at attachment.
func (s *Service) Create(ctx context.Context, name, description, templateText string) (*models.AssetType, error) {
	if err := template.Validate(templateText); err != nil {
		var malformed *template.MalformedTemplateError
		if errors.As(err, &malformed) {
			return nil, dErrors.New(dErrors.CodeMalformedTemplate, malformed.Error())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "template validation failed")
	}

	at, err := models.NewAssetType(name, description, templateText)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, at); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "asset type with this name already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create asset type")
	}
	return at, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.AssetType, error) {
	at, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "asset type not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up asset type")
	}
	return at, nil
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]models.AssetType, error) {
	types, err := s.store.List(ctx, offset, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list asset types")
	}
	return types, nil
}

// RenderPreview renders the asset type's markdown template to HTML so admins
// can eyeball a checklist before attaching it anywhere.
func (s *Service) RenderPreview(ctx context.Context, id uuid.UUID) (string, error) {
	at, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := s.renderer.Convert([]byte(at.Template), &buf); err != nil {
		return "", dErrors.Wrap(fmt.Errorf("markdown render: %w", err), dErrors.CodeInternal, "failed to render template")
	}
	return buf.String(), nil
}
