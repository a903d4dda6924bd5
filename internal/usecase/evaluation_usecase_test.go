package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/VZENNN/hrvenomdashboard/internal/dto"
	"github.com/VZENNN/hrvenomdashboard/internal/errs"
	"github.com/VZENNN/hrvenomdashboard/internal/model"
	"github.com/VZENNN/hrvenomdashboard/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ==========================
// Fakes
// ==========================

type fakeCriterionCatalog struct {
	behavioral []model.Criterion
	technical  []model.Criterion
}

func (f *fakeCriterionCatalog) ListBehavioral() ([]model.Criterion, error) {
	return f.behavioral, nil
}

func (f *fakeCriterionCatalog) ListTechnical(departmentID uuid.UUID, position string) ([]model.Criterion, error) {
	var out []model.Criterion
	for _, c := range f.technical {
		if c.DepartmentID == nil || *c.DepartmentID != departmentID {
			continue
		}
		if c.Position == nil || *c.Position == position {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCriterionCatalog) FindByIDs(ids []uuid.UUID) (map[uuid.UUID]model.Criterion, error) {
	all := append(append([]model.Criterion{}, f.behavioral...), f.technical...)
	out := map[uuid.UUID]model.Criterion{}
	for _, id := range ids {
		for _, c := range all {
			if c.ID == id {
				out[id] = c
			}
		}
	}
	return out, nil
}

type periodKey struct {
	employee    uuid.UUID
	month, year int
}

type fakeEvaluationRepo struct {
	evals  map[uuid.UUID]*model.Evaluation
	byKey  map[periodKey]uuid.UUID
	topErr error
}

func newFakeEvaluationRepo() *fakeEvaluationRepo {
	return &fakeEvaluationRepo{
		evals: map[uuid.UUID]*model.Evaluation{},
		byKey: map[periodKey]uuid.UUID{},
	}
}

func (f *fakeEvaluationRepo) Create(eval *model.Evaluation) error {
	key := periodKey{eval.EmployeeID, eval.Month, eval.Year}
	if _, exists := f.byKey[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	eval.ID = uuid.New()
	f.evals[eval.ID] = eval
	f.byKey[key] = eval.ID
	return nil
}

func (f *fakeEvaluationRepo) FindByID(id uuid.UUID) (*model.Evaluation, error) {
	eval, ok := f.evals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *eval
	return &cp, nil
}

func (f *fakeEvaluationRepo) ListByEmployeeYear(employeeID uuid.UUID, year int) ([]model.Evaluation, error) {
	var out []model.Evaluation
	for m := 1; m <= 12; m++ {
		if id, ok := f.byKey[periodKey{employeeID, m, year}]; ok {
			out = append(out, *f.evals[id])
		}
	}
	return out, nil
}

func (f *fakeEvaluationRepo) ReplaceItems(eval *model.Evaluation, items []model.EvaluationItem) error {
	stored, ok := f.evals[eval.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Items = items
	stored.BehaviorScore = eval.BehaviorScore
	stored.TechnicalScore = eval.TechnicalScore
	stored.FinalScore = eval.FinalScore
	stored.Grade = eval.Grade
	stored.Feedback = eval.Feedback
	return nil
}

func (f *fakeEvaluationRepo) Delete(id uuid.UUID) error {
	eval, ok := f.evals[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byKey, periodKey{eval.EmployeeID, eval.Month, eval.Year})
	delete(f.evals, id)
	return nil
}

func (f *fakeEvaluationRepo) TopByPeriod(month, year, limit int) ([]model.Evaluation, error) {
	return nil, f.topErr
}

type fakeDirectory struct {
	profiles map[uuid.UUID]*service.EmployeeProfile
}

func (f *fakeDirectory) GetEmployee(ctx context.Context, id uuid.UUID) (*service.EmployeeProfile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return p, nil
}

// ==========================
// Fixtures
// ==========================

func strPtr(s string) *string { return &s }

func testCatalog() (*fakeCriterionCatalog, []model.Criterion, []model.Criterion) {
	dept := uuid.New()
	behavioral := []model.Criterion{
		{ID: uuid.New(), Title: "Discipline", Type: model.KpiTypeBehavioral},
		{ID: uuid.New(), Title: "Integrity", Type: model.KpiTypeBehavioral},
	}
	technical := []model.Criterion{
		{ID: uuid.New(), Title: "Closing Accuracy", Type: model.KpiTypeTechnical, DepartmentID: &dept, Position: strPtr("Finance SPV")},
		{ID: uuid.New(), Title: "Stock Accuracy", Type: model.KpiTypeTechnical, DepartmentID: &dept},
	}
	return &fakeCriterionCatalog{behavioral: behavioral, technical: technical}, behavioral, technical
}

func newTestEvaluationUsecase(t *testing.T) (*EvaluationUsecase, *fakeEvaluationRepo, []model.Criterion, []model.Criterion) {
	t.Helper()
	catalog, behavioral, technical := testCatalog()
	repo := newFakeEvaluationRepo()
	uc := NewEvaluationUsecase(repo, catalog, &fakeDirectory{profiles: map[uuid.UUID]*service.EmployeeProfile{}}, zap.NewNop())
	return uc, repo, behavioral, technical
}

func itemInput(c model.Criterion, weight, score int) dto.EvaluationItemInput {
	return dto.EvaluationItemInput{
		CriterionID: c.ID.String(),
		Kind:        string(c.Type),
		Weight:      weight,
		Score:       score,
	}
}

// ==========================
// Create
// ==========================

func TestEvaluationCreate_ComputesScoresServerSide(t *testing.T) {
	uc, _, behavioral, technical := newTestEvaluationUsecase(t)
	ctx := context.Background()

	input := dto.CreateEvaluationInput{
		EmployeeID: uuid.NewString(),
		Month:      3,
		Year:       2026,
		Items: []dto.EvaluationItemInput{
			itemInput(behavioral[0], 0, 4),
			itemInput(behavioral[1], 0, 2),
			itemInput(technical[0], 50, 3),
			itemInput(technical[1], 25, 4),
		},
	}

	eval, err := uc.Create(ctx, uuid.New(), RoleManager, input)
	require.NoError(t, err)

	assert.InDelta(t, 3.0, eval.BehaviorScore, 1e-9)
	assert.InDelta(t, 2.5, eval.TechnicalScore, 1e-9)
	assert.InDelta(t, 3.0*0.4+2.5*0.6, eval.FinalScore, 1e-9)
	assert.Equal(t, "Fair/Need Improvement", eval.Grade)
	assert.Len(t, eval.Items, 4)
}

func TestEvaluationCreate_DuplicatePeriodRejected(t *testing.T) {
	uc, _, behavioral, _ := newTestEvaluationUsecase(t)
	ctx := context.Background()

	input := dto.CreateEvaluationInput{
		EmployeeID: uuid.NewString(),
		Month:      3,
		Year:       2026,
		Items:      []dto.EvaluationItemInput{itemInput(behavioral[0], 0, 4)},
	}

	_, err := uc.Create(ctx, uuid.New(), RoleManager, input)
	require.NoError(t, err)

	_, err = uc.Create(ctx, uuid.New(), RoleManager, input)
	assert.ErrorIs(t, err, errs.ErrDuplicateEvaluation)
}

func TestEvaluationCreate_KindMismatchRejected(t *testing.T) {
	uc, _, behavioral, _ := newTestEvaluationUsecase(t)

	item := itemInput(behavioral[0], 0, 4)
	item.Kind = string(model.KpiTypeTechnical) // declared kind disagrees with catalog

	_, err := uc.Create(context.Background(), uuid.New(), RoleManager, dto.CreateEvaluationInput{
		EmployeeID: uuid.NewString(),
		Month:      1,
		Year:       2026,
		Items:      []dto.EvaluationItemInput{item},
	})

	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "items[0].kind")
}

func TestEvaluationCreate_UnknownCriterionRejected(t *testing.T) {
	uc, _, _, _ := newTestEvaluationUsecase(t)

	_, err := uc.Create(context.Background(), uuid.New(), RoleManager, dto.CreateEvaluationInput{
		EmployeeID: uuid.NewString(),
		Month:      1,
		Year:       2026,
		Items: []dto.EvaluationItemInput{{
			CriterionID: uuid.NewString(),
			Kind:        string(model.KpiTypeBehavioral),
			Score:       3,
		}},
	})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestEvaluationCreate_RequiresAppraiserRole(t *testing.T) {
	uc, _, _, _ := newTestEvaluationUsecase(t)

	_, err := uc.Create(context.Background(), uuid.New(), RoleEmployee, dto.CreateEvaluationInput{})
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestEvaluationCreate_ScoreOutOfRangeRejected(t *testing.T) {
	uc, _, behavioral, _ := newTestEvaluationUsecase(t)

	_, err := uc.Create(context.Background(), uuid.New(), RoleManager, dto.CreateEvaluationInput{
		EmployeeID: uuid.NewString(),
		Month:      1,
		Year:       2026,
		Items:      []dto.EvaluationItemInput{itemInput(behavioral[0], 0, 6)},
	})

	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "items[0].score")
}

func TestEvaluationCreate_TechnicalScoreDerivedFromAchievement(t *testing.T) {
	uc, _, _, technical := newTestEvaluationUsecase(t)

	item := itemInput(technical[1], 100, 0)
	item.Actual = "98" // 98% achievement -> score 4

	eval, err := uc.Create(context.Background(), uuid.New(), RoleManager, dto.CreateEvaluationInput{
		EmployeeID: uuid.NewString(),
		Month:      2,
		Year:       2026,
		Items:      []dto.EvaluationItemInput{item},
	})
	require.NoError(t, err)
	require.Len(t, eval.Items, 1)
	assert.Equal(t, 4, eval.Items[0].Score)
	assert.InDelta(t, 4.0, eval.TechnicalScore, 1e-9)
}

// ==========================
// Amend / Delete
// ==========================

func TestEvaluationAmend_ReplacesItemSetFully(t *testing.T) {
	uc, repo, behavioral, technical := newTestEvaluationUsecase(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, uuid.New(), RoleManager, dto.CreateEvaluationInput{
		EmployeeID: uuid.NewString(),
		Month:      5,
		Year:       2026,
		Items: []dto.EvaluationItemInput{
			itemInput(behavioral[0], 0, 5),
			itemInput(behavioral[1], 0, 5),
			itemInput(technical[0], 40, 5),
			itemInput(technical[1], 60, 5),
		},
	})
	require.NoError(t, err)

	// Catalog shrank: the amended set has 3 items; no residue may survive.
	amended, err := uc.Amend(ctx, created.ID, RoleAdmin, dto.AmendEvaluationInput{
		Items: []dto.EvaluationItemInput{
			itemInput(behavioral[0], 0, 3),
			itemInput(technical[0], 50, 2),
			itemInput(technical[1], 50, 2),
		},
	})
	require.NoError(t, err)

	assert.Len(t, amended.Items, 3)
	assert.InDelta(t, 3.0, amended.BehaviorScore, 1e-9)
	assert.InDelta(t, 2.0, amended.TechnicalScore, 1e-9)
	assert.InDelta(t, 3.0*0.4+2.0*0.6, amended.FinalScore, 1e-9)

	stored, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 3)
}

func TestEvaluationAmend_RequiresAdmin(t *testing.T) {
	uc, _, _, _ := newTestEvaluationUsecase(t)

	_, err := uc.Amend(context.Background(), uuid.New(), RoleManager, dto.AmendEvaluationInput{})
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestEvaluationAmend_UnknownEvaluation(t *testing.T) {
	uc, _, behavioral, _ := newTestEvaluationUsecase(t)

	_, err := uc.Amend(context.Background(), uuid.New(), RoleAdmin, dto.AmendEvaluationInput{
		Items: []dto.EvaluationItemInput{itemInput(behavioral[0], 0, 3)},
	})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestEvaluationDelete(t *testing.T) {
	uc, repo, behavioral, _ := newTestEvaluationUsecase(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, uuid.New(), RoleManager, dto.CreateEvaluationInput{
		EmployeeID: uuid.NewString(),
		Month:      7,
		Year:       2026,
		Items:      []dto.EvaluationItemInput{itemInput(behavioral[0], 0, 4)},
	})
	require.NoError(t, err)

	require.ErrorIs(t, uc.Delete(ctx, created.ID, RoleEmployee), errs.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, created.ID, RoleManager))

	_, err = repo.FindByID(created.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

// ==========================
// Reads
// ==========================

func TestEvaluationHistory_AnnualAverage(t *testing.T) {
	uc, _, behavioral, _ := newTestEvaluationUsecase(t)
	ctx := context.Background()
	employee := uuid.NewString()

	for month, score := range map[int]int{1: 4, 2: 2} {
		_, err := uc.Create(ctx, uuid.New(), RoleManager, dto.CreateEvaluationInput{
			EmployeeID: employee,
			Month:      month,
			Year:       2026,
			Items:      []dto.EvaluationItemInput{itemInput(behavioral[0], 0, score)},
		})
		require.NoError(t, err)
	}

	employeeID, _ := uuid.Parse(employee)
	evals, avg, err := uc.History(ctx, employeeID, 2026)
	require.NoError(t, err)
	require.Len(t, evals, 2)
	assert.Equal(t, 1, evals[0].Month)
	assert.Equal(t, 2, evals[1].Month)

	// finals are 4*0.4=1.6 and 2*0.4=0.8, mean 1.2
	assert.InDelta(t, 1.2, avg, 1e-9)
}

func TestEvaluationHistory_EmptyYearAveragesZero(t *testing.T) {
	uc, _, _, _ := newTestEvaluationUsecase(t)

	evals, avg, err := uc.History(context.Background(), uuid.New(), 2031)
	require.NoError(t, err)
	assert.Empty(t, evals)
	assert.Zero(t, avg)
}

func TestEvaluationMetadata_ResolvesTechnicalFallback(t *testing.T) {
	catalog, _, technical := testCatalog()
	repo := newFakeEvaluationRepo()
	employeeID := uuid.New()
	dept := *technical[0].DepartmentID

	directory := &fakeDirectory{profiles: map[uuid.UUID]*service.EmployeeProfile{
		employeeID: {ID: employeeID, DepartmentID: dept, Position: "Finance SPV"},
	}}
	uc := NewEvaluationUsecase(repo, catalog, directory, zap.NewNop())

	meta, err := uc.Metadata(context.Background(), employeeID)
	require.NoError(t, err)
	assert.Len(t, meta.Behavioral, 2)
	// position-specific match plus the null-position department fallback
	assert.Len(t, meta.Technical, 2)

	// a different position only gets the fallback criterion
	directory.profiles[employeeID].Position = "Admin Finance"
	meta, err = uc.Metadata(context.Background(), employeeID)
	require.NoError(t, err)
	assert.Len(t, meta.Technical, 1)
	assert.Equal(t, "Stock Accuracy", meta.Technical[0].Title)
}

func TestEvaluationPreview(t *testing.T) {
	uc, _, _, _ := newTestEvaluationUsecase(t)

	res, err := uc.Preview(dto.PreviewInput{Items: []dto.EvaluationItemInput{
		{Kind: "BEHAVIORAL", Score: 4},
		{Kind: "TECHNICAL", Weight: 50, Score: 3},
	}})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, res.BehaviorScore, 1e-9)
	assert.InDelta(t, 1.5, res.TechnicalScore, 1e-9)

	_, err = uc.Preview(dto.PreviewInput{Items: []dto.EvaluationItemInput{{Kind: "BOGUS"}}})
	var verr *errs.ValidationError
	assert.ErrorAs(t, err, &verr)
}
