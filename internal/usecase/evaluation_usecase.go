package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/VZENNN/hrvenomdashboard/internal/dto"
	"github.com/VZENNN/hrvenomdashboard/internal/errs"
	"github.com/VZENNN/hrvenomdashboard/internal/model"
	"github.com/VZENNN/hrvenomdashboard/internal/scoring"
	"github.com/VZENNN/hrvenomdashboard/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Roles the engine trusts from the identity collaborator. Appraisals are
// written by managers and up; amending a recorded evaluation takes an admin.
const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleAdmin    = "ADMIN"
)

func canAppraise(role string) bool {
	return role == RoleManager || role == RoleAdmin
}

func canAmend(role string) bool {
	return role == RoleAdmin
}

// EvaluationRepository is the persistence surface the lifecycle manager needs.
type EvaluationRepository interface {
	Create(eval *model.Evaluation) error
	FindByID(id uuid.UUID) (*model.Evaluation, error)
	ListByEmployeeYear(employeeID uuid.UUID, year int) ([]model.Evaluation, error)
	ReplaceItems(eval *model.Evaluation, items []model.EvaluationItem) error
	Delete(id uuid.UUID) error
	TopByPeriod(month, year, limit int) ([]model.Evaluation, error)
}

// CriterionCatalog is the read-only criterion catalog.
type CriterionCatalog interface {
	ListBehavioral() ([]model.Criterion, error)
	ListTechnical(departmentID uuid.UUID, position string) ([]model.Criterion, error)
	FindByIDs(ids []uuid.UUID) (map[uuid.UUID]model.Criterion, error)
}

type EvaluationUsecase struct {
	evalRepo  EvaluationRepository
	criteria  CriterionCatalog
	directory service.DirectoryServiceInterface
	log       *zap.Logger
}

func NewEvaluationUsecase(evalRepo EvaluationRepository, criteria CriterionCatalog, directory service.DirectoryServiceInterface, log *zap.Logger) *EvaluationUsecase {
	return &EvaluationUsecase{evalRepo: evalRepo, criteria: criteria, directory: directory, log: log}
}

// EvaluationMetadata is what an appraiser needs to start a new evaluation:
// the employee context plus the applicable criteria.
type EvaluationMetadata struct {
	Employee   *service.EmployeeProfile `json:"employee"`
	Behavioral []model.Criterion        `json:"behavioral"`
	Technical  []model.Criterion        `json:"technical"`
}

// Metadata resolves the criteria applicable to an employee: all behavioral
// criteria, plus technical criteria matching the employee's department with
// either the exact position or the null-position department fallback.
func (uc *EvaluationUsecase) Metadata(ctx context.Context, employeeID uuid.UUID) (*EvaluationMetadata, error) {
	employee, err := uc.directory.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	behavioral, err := uc.criteria.ListBehavioral()
	if err != nil {
		return nil, err
	}
	technical, err := uc.criteria.ListTechnical(employee.DepartmentID, employee.Position)
	if err != nil {
		return nil, err
	}

	return &EvaluationMetadata{Employee: employee, Behavioral: behavioral, Technical: technical}, nil
}

// Preview computes scores from caller-declared items without touching
// storage. Used for the live preview while an evaluation is being edited.
func (uc *EvaluationUsecase) Preview(input dto.PreviewInput) (scoring.Result, error) {
	var behavioral, technical []scoring.RatedItem
	for i, item := range input.Items {
		switch model.KpiType(item.Kind) {
		case model.KpiTypeBehavioral:
			behavioral = append(behavioral, scoring.RatedItem{Score: item.Score})
		case model.KpiTypeTechnical:
			technical = append(technical, scoring.RatedItem{Weight: item.Weight, Score: resolveScore(item)})
		default:
			return scoring.Result{}, errs.NewValidationError("unknown criterion kind", map[string]string{
				fmt.Sprintf("items[%d].kind", i): "must be BEHAVIORAL or TECHNICAL",
			})
		}
	}
	return scoring.Compute(behavioral, technical), nil
}

// Create records a new evaluation. Scores are recomputed here and never
// trusted from the caller; a second evaluation for the same employee and
// period fails with ErrDuplicateEvaluation.
func (uc *EvaluationUsecase) Create(ctx context.Context, appraiserID uuid.UUID, role string, input dto.CreateEvaluationInput) (*model.Evaluation, error) {
	if !canAppraise(role) {
		return nil, errs.ErrForbidden
	}

	employeeID, err := uuid.Parse(input.EmployeeID)
	if err != nil {
		return nil, errs.NewValidationError("malformed employee id", map[string]string{"employee_id": "must be a UUID"})
	}
	if input.Month < 1 || input.Month > 12 {
		return nil, errs.NewValidationError("month out of range", map[string]string{"month": "must be between 1 and 12"})
	}
	if input.Year <= 0 {
		return nil, errs.NewValidationError("year out of range", map[string]string{"year": "must be positive"})
	}

	items, result, err := uc.buildItems(input.Items)
	if err != nil {
		return nil, err
	}

	eval := &model.Evaluation{
		EmployeeID:     employeeID,
		AppraiserID:    appraiserID,
		Month:          input.Month,
		Year:           input.Year,
		BehaviorScore:  result.BehaviorScore,
		TechnicalScore: result.TechnicalScore,
		FinalScore:     result.FinalScore,
		Grade:          result.Grade,
		Feedback:       input.Feedback,
		Items:          items,
	}

	if err := uc.evalRepo.Create(eval); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.ErrDuplicateEvaluation
		}
		return nil, err
	}

	uc.log.Info("evaluation created",
		zap.String("evaluation_id", eval.ID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.Int("month", input.Month),
		zap.Int("year", input.Year),
		zap.Float64("final_score", result.FinalScore),
	)
	return eval, nil
}

// Amend replaces the full item set of a recorded evaluation and recomputes
// scores from the new set only. Old and new items never coexist.
func (uc *EvaluationUsecase) Amend(ctx context.Context, id uuid.UUID, role string, input dto.AmendEvaluationInput) (*model.Evaluation, error) {
	if !canAmend(role) {
		return nil, errs.ErrForbidden
	}

	eval, err := uc.evalRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	items, result, err := uc.buildItems(input.Items)
	if err != nil {
		return nil, err
	}

	eval.BehaviorScore = result.BehaviorScore
	eval.TechnicalScore = result.TechnicalScore
	eval.FinalScore = result.FinalScore
	eval.Grade = result.Grade
	eval.Feedback = input.Feedback

	if err := uc.evalRepo.ReplaceItems(eval, items); err != nil {
		return nil, err
	}

	uc.log.Info("evaluation amended",
		zap.String("evaluation_id", id.String()),
		zap.Int("items", len(items)),
		zap.Float64("final_score", result.FinalScore),
	)
	return uc.evalRepo.FindByID(id)
}

// Delete removes the evaluation and its items.
func (uc *EvaluationUsecase) Delete(ctx context.Context, id uuid.UUID, role string) error {
	if !canAppraise(role) {
		return errs.ErrForbidden
	}
	if err := uc.evalRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		return err
	}
	uc.log.Info("evaluation deleted", zap.String("evaluation_id", id.String()))
	return nil
}

// Detail returns one evaluation with items joined to their criteria,
// behavioral items first.
func (uc *EvaluationUsecase) Detail(ctx context.Context, id uuid.UUID) (*model.Evaluation, error) {
	eval, err := uc.evalRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	sortItemsByKind(eval.Items)
	return eval, nil
}

// History returns an employee's evaluations for a year, month ascending, plus
// the annual average of final scores (0 when the year is empty).
func (uc *EvaluationUsecase) History(ctx context.Context, employeeID uuid.UUID, year int) ([]model.Evaluation, float64, error) {
	evals, err := uc.evalRepo.ListByEmployeeYear(employeeID, year)
	if err != nil {
		return nil, 0, err
	}
	finals := make([]float64, len(evals))
	for i, e := range evals {
		finals[i] = e.FinalScore
	}
	return evals, scoring.AnnualAverage(finals), nil
}

// TopByPeriod lists the best final scores for a month/year window.
func (uc *EvaluationUsecase) TopByPeriod(ctx context.Context, month, year, limit int) ([]model.Evaluation, error) {
	if month < 1 || month > 12 {
		return nil, errs.NewValidationError("month out of range", map[string]string{"month": "must be between 1 and 12"})
	}
	if limit <= 0 {
		limit = 5
	}
	return uc.evalRepo.TopByPeriod(month, year, limit)
}

// buildItems validates the submitted items against the stored criterion
// catalog and computes the scores. The caller-declared kind must match the
// stored kind of each referenced criterion; a mismatch is a validation error,
// never silently corrected.
func (uc *EvaluationUsecase) buildItems(inputs []dto.EvaluationItemInput) ([]model.EvaluationItem, scoring.Result, error) {
	if len(inputs) == 0 {
		return nil, scoring.Result{}, errs.NewValidationError("empty item set", map[string]string{"items": "at least one item is required"})
	}

	fields := map[string]string{}
	ids := make([]uuid.UUID, 0, len(inputs))
	parsed := make([]uuid.UUID, len(inputs))
	for i, item := range inputs {
		id, err := uuid.Parse(item.CriterionID)
		if err != nil {
			fields[fmt.Sprintf("items[%d].criterion_id", i)] = "must be a UUID"
			continue
		}
		parsed[i] = id
		ids = append(ids, id)
	}
	if len(fields) > 0 {
		return nil, scoring.Result{}, errs.NewValidationError("malformed items", fields)
	}

	catalog, err := uc.criteria.FindByIDs(ids)
	if err != nil {
		return nil, scoring.Result{}, err
	}

	var items []model.EvaluationItem
	var behavioral, technical []scoring.RatedItem
	for i, item := range inputs {
		criterion, ok := catalog[parsed[i]]
		if !ok {
			return nil, scoring.Result{}, fmt.Errorf("criterion %s: %w", item.CriterionID, errs.ErrNotFound)
		}
		if model.KpiType(item.Kind) != criterion.Type {
			fields[fmt.Sprintf("items[%d].kind", i)] = fmt.Sprintf("criterion is %s", criterion.Type)
			continue
		}
		if item.Weight < 0 || item.Weight > 100 {
			fields[fmt.Sprintf("items[%d].weight", i)] = "must be between 0 and 100"
			continue
		}
		score := item.Score
		if criterion.Type == model.KpiTypeTechnical {
			score = resolveScore(item)
		}
		if score < 1 || score > 5 {
			fields[fmt.Sprintf("items[%d].score", i)] = "must be between 1 and 5"
			continue
		}

		items = append(items, model.EvaluationItem{
			CriterionID: criterion.ID,
			Target:      item.Target,
			Actual:      item.Actual,
			Weight:      item.Weight,
			Score:       score,
			Comment:     item.Comment,
		})
		if criterion.Type == model.KpiTypeBehavioral {
			behavioral = append(behavioral, scoring.RatedItem{Score: score})
		} else {
			technical = append(technical, scoring.RatedItem{Weight: item.Weight, Score: score})
		}
	}
	if len(fields) > 0 {
		return nil, scoring.Result{}, errs.NewValidationError("invalid items", fields)
	}

	return items, scoring.Compute(behavioral, technical), nil
}

// resolveScore fills in a missing technical score from a numeric achievement
// percentage in Actual. An explicit score always wins.
func resolveScore(item dto.EvaluationItemInput) int {
	if item.Score != 0 {
		return item.Score
	}
	pct, err := strconv.ParseFloat(item.Actual, 64)
	if err != nil {
		return item.Score
	}
	return scoring.ScoreFromAchievement(pct)
}

func sortItemsByKind(items []model.EvaluationItem) {
	// stable partition: behavioral block first, original order preserved
	var behavioral, technical, rest []model.EvaluationItem
	for _, it := range items {
		switch {
		case it.Criterion != nil && it.Criterion.Type == model.KpiTypeBehavioral:
			behavioral = append(behavioral, it)
		case it.Criterion != nil && it.Criterion.Type == model.KpiTypeTechnical:
			technical = append(technical, it)
		default:
			rest = append(rest, it)
		}
	}
	copy(items, append(append(behavioral, technical...), rest...))
}
