package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"aiinterviewer/internal/config"
	"aiinterviewer/internal/model"
	"aiinterviewer/internal/repository"
)

// TemplateService handles interview template CRUD and resolution
type TemplateService struct {
	templates    repository.TemplateRepo
	policy       config.Policy
	storeTimeout time.Duration
}

// NewTemplateService creates a new template service
func NewTemplateService(templates repository.TemplateRepo, policy config.Policy, storeTimeout time.Duration) *TemplateService {
	return &TemplateService{templates: templates, policy: policy, storeTimeout: storeTimeout}
}

// Create validates and stores a researcher-owned template
func (s *TemplateService) Create(ctx context.Context, ownerID string, tpl *model.Template) (string, error) {
	tpl.ID = ""
	tpl.OwnerID = ownerID
	tpl.BuiltIn = false
	if err := s.normalize(tpl); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.templates.CreateTemplate(ctx, tpl)
}

// Import validates and upserts a template under its own id, replacing any previous version
func (s *TemplateService) Import(ctx context.Context, ownerID string, tpl *model.Template) error {
	tpl.ID = strings.TrimSpace(tpl.ID)
	if tpl.ID == "" {
		return errors.Wrap(ErrInvalidTemplate, "id is required")
	}
	if _, ok := builtinTemplate(tpl.ID); ok {
		return errors.Wrapf(ErrInvalidTemplate, "id %q is reserved", tpl.ID)
	}
	tpl.OwnerID = ownerID
	tpl.BuiltIn = false
	if err := s.normalize(tpl); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.templates.UpsertTemplate(ctx, tpl)
}

// Get resolves a template id against the built-ins first, then the store
func (s *TemplateService) Get(ctx context.Context, id string) (*model.Template, error) {
	if tpl, ok := builtinTemplate(id); ok {
		return &tpl, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	tpl, err := s.templates.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, ErrTemplateNotFound
	}
	return tpl, nil
}

// List returns built-in templates plus the owner's own
func (s *TemplateService) List(ctx context.Context, ownerID string) ([]*model.Template, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.templates.ListTemplates(ctx, ownerID)
}

// SeedBuiltins upserts the built-in templates into the store
func (s *TemplateService) SeedBuiltins(ctx context.Context) error {
	for _, t := range BuiltinTemplates {
		tpl, _ := builtinTemplate(t.ID)
		if err := s.templates.UpsertTemplate(ctx, &tpl); err != nil {
			return errors.Wrapf(err, "seed template %s", t.ID)
		}
		log.Debug().Str("template", t.ID).Msg("seeded template")
	}
	return nil
}

func (s *TemplateService) normalize(tpl *model.Template) error {
	tpl.Topic = strings.TrimSpace(tpl.Topic)
	tpl.Name = strings.TrimSpace(tpl.Name)
	if tpl.Topic == "" {
		return errors.Wrap(ErrInvalidTemplate, "topic is required")
	}
	if tpl.Name == "" {
		tpl.Name = tpl.Topic
	}
	var questions []string
	for _, q := range tpl.StarterQuestions {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, ensureQuestion(q, q))
		}
	}
	if len(questions) == 0 {
		return errors.Wrap(ErrInvalidTemplate, "at least one starter question is required")
	}
	tpl.StarterQuestions = questions
	if tpl.MaxTurns <= 0 {
		tpl.MaxTurns = s.policy.DefaultMaxTurns
	}
	if tpl.ProbeBudget != nil && *tpl.ProbeBudget < 0 {
		return errors.Wrap(ErrInvalidTemplate, "probe budget must be >= 0")
	}
	return nil
}
