package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/VZENNN/hrvenomdashboard/internal/errs"
	"github.com/VZENNN/hrvenomdashboard/internal/model"
	"github.com/VZENNN/hrvenomdashboard/internal/scoring"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssessmentRepository is the persistence surface of the timed test flow.
type AssessmentRepository interface {
	ListCategories() ([]model.AssessmentCategory, error)
	FindCategory(id uuid.UUID) (*model.AssessmentCategory, error)
	HasResult(applicantID, categoryID uuid.UUID) (bool, error)
	ListCompletedCategoryIDs(applicantID uuid.UUID) ([]uuid.UUID, error)
	CreateResultIfAbsent(result *model.AssessmentResult) (bool, error)
	ListResults(applicantID *uuid.UUID, page, pageSize int) ([]model.AssessmentResult, int64, error)
}

// CountdownSessions holds the per-attempt start times.
type CountdownSessions interface {
	Start(ctx context.Context, applicantID, categoryID uuid.UUID, limit time.Duration) (time.Time, error)
	StartedAt(ctx context.Context, applicantID, categoryID uuid.UUID) (time.Time, bool, error)
	Clear(ctx context.Context, applicantID, categoryID uuid.UUID) error
}

// submitSlack absorbs network latency of a timeout-triggered submit: a
// submission landing this soon after the deadline still counts as expiry, not
// as rejected.
const submitSlack = 5 * time.Second

type AssessmentUsecase struct {
	repo     AssessmentRepository
	sessions CountdownSessions
	log      *zap.Logger
	now      func() time.Time
}

func NewAssessmentUsecase(repo AssessmentRepository, sessions CountdownSessions, log *zap.Logger) *AssessmentUsecase {
	return &AssessmentUsecase{repo: repo, sessions: sessions, log: log, now: time.Now}
}

// StartedSession is an opened countdown attempt.
type StartedSession struct {
	Category  *model.AssessmentCategory
	StartedAt time.Time
	Remaining int // seconds, server-computed
}

// SubmitOutcome is the terminal state of one category attempt. Created is
// false when a result already existed for the pair; that is a defined no-op,
// not an error, and the caller proceeds to Next either way.
type SubmitOutcome struct {
	Created bool
	Expired bool
	Next    *model.AssessmentCategory
}

// ListCategories returns the ordered catalog.
func (uc *AssessmentUsecase) ListCategories(ctx context.Context) ([]model.AssessmentCategory, error) {
	return uc.repo.ListCategories()
}

// StartCategory opens the countdown for a category. A category that already
// has a result refuses with ErrCategoryCompleted before any clock starts;
// re-entering a running attempt returns the original start time unchanged.
func (uc *AssessmentUsecase) StartCategory(ctx context.Context, applicantID, categoryID uuid.UUID) (*StartedSession, error) {
	category, err := uc.repo.FindCategory(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	completed, err := uc.repo.HasResult(applicantID, categoryID)
	if err != nil {
		return nil, err
	}
	if completed {
		return nil, errs.ErrCategoryCompleted
	}

	limit := time.Duration(category.TimeLimit) * time.Second
	startedAt, err := uc.sessions.Start(ctx, applicantID, categoryID, limit)
	if err != nil {
		return nil, err
	}

	remaining := category.TimeLimit - int(uc.now().UTC().Sub(startedAt)/time.Second)
	if remaining < 0 {
		remaining = 0
	}

	uc.log.Info("assessment session running",
		zap.String("applicant_id", applicantID.String()),
		zap.String("category_id", categoryID.String()),
		zap.Int("remaining_seconds", remaining),
	)
	return &StartedSession{Category: category, StartedAt: startedAt, Remaining: remaining}, nil
}

// Submit ends the attempt. Manual submit and timer expiry are the same
// terminal event: whatever answers are held get sanitized and written, with
// unanswered questions simply absent. Whether this attempt ran out of time is
// decided here from the stored session start, never from the client. The
// write is conditional on no result existing; a conflict leaves the stored
// answers untouched and reports Created=false.
func (uc *AssessmentUsecase) Submit(ctx context.Context, applicantID, categoryID uuid.UUID, raw model.AnswerMap) (*SubmitOutcome, error) {
	category, err := uc.repo.FindCategory(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	answers := scoring.SanitizeAnswers(category.Questions, raw)

	limit := time.Duration(category.TimeLimit) * time.Second
	expired := true
	if startedAt, found, err := uc.sessions.StartedAt(ctx, applicantID, categoryID); err != nil {
		return nil, err
	} else if found {
		expired = uc.now().UTC().Sub(startedAt) > limit+submitSlack
	}

	created, err := uc.repo.CreateResultIfAbsent(&model.AssessmentResult{
		ApplicantID: applicantID,
		CategoryID:  categoryID,
		Answers:     answers,
		Expired:     expired,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.sessions.Clear(ctx, applicantID, categoryID); err != nil {
		uc.log.Warn("failed to clear countdown session",
			zap.String("applicant_id", applicantID.String()),
			zap.String("category_id", categoryID.String()),
			zap.Error(err),
		)
	}

	next, err := uc.NextCategory(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	uc.log.Info("assessment category submitted",
		zap.String("applicant_id", applicantID.String()),
		zap.String("category_id", categoryID.String()),
		zap.Bool("created", created),
		zap.Bool("expired", expired),
		zap.Int("answers", len(answers)),
	)
	return &SubmitOutcome{Created: created, Expired: expired, Next: next}, nil
}

// NextCategory returns the first category in catalog order without a result
// for this applicant, or nil when every category is done. Selection is by
// catalog order, not completion order, and nothing is cached between calls,
// so categories added or reordered between sessions are picked up.
func (uc *AssessmentUsecase) NextCategory(ctx context.Context, applicantID uuid.UUID) (*model.AssessmentCategory, error) {
	categories, err := uc.repo.ListCategories()
	if err != nil {
		return nil, err
	}
	completedIDs, err := uc.repo.ListCompletedCategoryIDs(applicantID)
	if err != nil {
		return nil, err
	}

	completed := make(map[uuid.UUID]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = struct{}{}
	}
	for i := range categories {
		if _, done := completed[categories[i].ID]; !done {
			return &categories[i], nil
		}
	}
	return nil, nil
}

// ListResults pages stored results for reviewers.
func (uc *AssessmentUsecase) ListResults(ctx context.Context, applicantID *uuid.UUID, page, pageSize int) ([]model.AssessmentResult, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return uc.repo.ListResults(applicantID, page, pageSize)
}
