package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/liftcheck/crane-records-api/internal/models"
	appErrors "github.com/liftcheck/crane-records-api/pkg/errors"
)

type checklistTemplateRepository interface {
	FindByScope(ctx context.Context, category, equipmentType string) (*models.ChecklistTemplate, error)
}

// ChecklistService resolves checklist templates and evaluates submitted
// results against them. Evaluation is a pure function; only template lookup
// touches storage, with an optional cache in front.
type ChecklistService struct {
	templates checklistTemplateRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewChecklistService constructs a ChecklistService. The cache client may be
// nil, in which case every template lookup hits the repository.
func NewChecklistService(templates checklistTemplateRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *ChecklistService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChecklistService{templates: templates, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Template returns the checklist template for a category and equipment type.
func (s *ChecklistService) Template(ctx context.Context, category, equipmentType string) (*models.ChecklistTemplate, error) {
	cacheKey := fmt.Sprintf("checklist:template:%s:%s", category, equipmentType)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var template models.ChecklistTemplate
			if err := json.Unmarshal(raw, &template); err == nil {
				return &template, nil
			}
		}
	}

	template, err := s.templates.FindByScope(ctx, category, equipmentType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "checklist template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load checklist template")
	}

	if s.cache != nil {
		if raw, err := json.Marshal(template); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("checklist template cache write failed", zap.Error(err))
			}
		}
	}
	return template, nil
}

// Evaluate turns a template and a map of submitted item results into a draft
// defect list and an overall verdict. It is stateless and deterministic:
// defects come out in template section/item order, critical items escalate
// to high severity, and items marked ok never contribute a defect. Applying
// the same result map twice yields the same evaluation.
func (s *ChecklistService) Evaluate(template *models.ChecklistTemplate, results models.ChecklistResults) models.ChecklistEvaluation {
	evaluation := models.ChecklistEvaluation{Verdict: models.VerdictPassed}
	if template == nil {
		return evaluation
	}

	for _, section := range template.Sections {
		for _, item := range section.Items {
			if results[item.ID] != models.CheckResultDefect {
				continue
			}
			severity := models.SeverityMedium
			if item.Critical {
				severity = models.SeverityHigh
			}
			description := item.Description
			if description == "" {
				description = item.Name
			}
			evaluation.Defects = append(evaluation.Defects, models.DraftDefect{
				ItemID:          item.ID,
				Section:         section.Name,
				ItemName:        item.Name,
				Description:     description,
				Severity:        severity,
				RequiresService: item.Critical,
			})
		}
	}

	for _, defect := range evaluation.Defects {
		if defect.Severity == models.SeverityHigh || defect.Severity == models.SeverityCritical {
			evaluation.Verdict = models.VerdictFailed
			return evaluation
		}
	}
	if len(evaluation.Defects) > 0 {
		evaluation.Verdict = models.VerdictPassedWithRemarks
	}
	return evaluation
}
