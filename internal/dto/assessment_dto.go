package dto

import (
	"time"

	"github.com/VZENNN/hrvenomdashboard/internal/model"
	"github.com/google/uuid"
)

type CategoryDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	TimeLimit     int       `json:"time_limit"`
	Order         int       `json:"order"`
	QuestionCount int       `json:"question_count"`
}

func NewCategoryDTO(c *model.AssessmentCategory) CategoryDTO {
	return CategoryDTO{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		TimeLimit:     c.TimeLimit,
		Order:         c.SortOrder,
		QuestionCount: len(c.Questions),
	}
}

type QuestionDTO struct {
	ID      uuid.UUID        `json:"id"`
	Content string           `json:"content"`
	Type    string           `json:"type"`
	Options model.OptionList `json:"options,omitempty"`
}

// StartSessionDTO is returned when an applicant opens a category. Remaining is
// the server-computed seconds left; the client countdown is advisory only.
type StartSessionDTO struct {
	Category  CategoryDTO   `json:"category"`
	Questions []QuestionDTO `json:"questions"`
	StartedAt time.Time     `json:"started_at"`
	Remaining int           `json:"remaining_seconds"`
}

type SubmitAnswersInput struct {
	Answers model.AnswerMap `json:"answers"`
}

// SubmitOutcomeDTO reports a terminal submission. Created is false when a
// result already existed; callers treat that exactly like a fresh write and
// move on to Next.
type SubmitOutcomeDTO struct {
	Created  bool         `json:"created"`
	Expired  bool         `json:"expired"`
	Finished bool         `json:"finished"`
	Next     *CategoryDTO `json:"next,omitempty"`
}

type ResultDTO struct {
	ID          uuid.UUID       `json:"id"`
	ApplicantID uuid.UUID       `json:"applicant_id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Answers     model.AnswerMap `json:"answers"`
	Expired     bool            `json:"expired"`
	CreatedAt   time.Time       `json:"created_at"`
}

func NewResultDTO(r *model.AssessmentResult) ResultDTO {
	return ResultDTO{
		ID:          r.ID,
		ApplicantID: r.ApplicantID,
		CategoryID:  r.CategoryID,
		Answers:     r.Answers,
		Expired:     r.Expired,
		CreatedAt:   r.CreatedAt,
	}
}
