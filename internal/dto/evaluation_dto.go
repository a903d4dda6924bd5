package dto

import (
	"time"

	"github.com/VZENNN/hrvenomdashboard/internal/model"
	"github.com/google/uuid"
)

// EvaluationItemInput is one rated criterion as submitted by the appraiser.
// Kind is the caller-declared criterion kind and must match the stored kind.
// Score may be omitted for technical items whose Actual is a numeric
// achievement percentage; it is then derived server side.
type EvaluationItemInput struct {
	CriterionID string `json:"criterion_id"`
	Kind        string `json:"kind"` // BEHAVIORAL or TECHNICAL
	Target      string `json:"target"`
	Actual      string `json:"actual"`
	Weight      int    `json:"weight"`
	Score       int    `json:"score"`
	Comment     string `json:"comment"`
}

type CreateEvaluationInput struct {
	EmployeeID string                `json:"employee_id"`
	Month      int                   `json:"month"`
	Year       int                   `json:"year"`
	Feedback   string                `json:"feedback"`
	Items      []EvaluationItemInput `json:"items"`
}

type AmendEvaluationInput struct {
	Feedback string                `json:"feedback"`
	Items    []EvaluationItemInput `json:"items"`
}

type PreviewInput struct {
	Items []EvaluationItemInput `json:"items"`
}

type EvaluationItemDTO struct {
	ID          uuid.UUID `json:"id"`
	CriterionID uuid.UUID `json:"criterion_id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Kind        string    `json:"kind"`
	Target      string    `json:"target"`
	Actual      string    `json:"actual"`
	Weight      int       `json:"weight"`
	Score       int       `json:"score"`
	Comment     string    `json:"comment"`
}

type EvaluationDTO struct {
	ID             uuid.UUID           `json:"id"`
	EmployeeID     uuid.UUID           `json:"employee_id"`
	AppraiserID    uuid.UUID           `json:"appraiser_id"`
	Month          int                 `json:"month"`
	Year           int                 `json:"year"`
	BehaviorScore  float64             `json:"behavior_score"`
	TechnicalScore float64             `json:"technical_score"`
	FinalScore     float64             `json:"final_score"`
	Grade          string              `json:"grade"`
	Feedback       string              `json:"feedback,omitempty"`
	Items          []EvaluationItemDTO `json:"items,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type EvaluationHistoryDTO struct {
	Evaluations   []EvaluationDTO `json:"evaluations"`
	AnnualAverage float64         `json:"annual_average"`
}

func NewEvaluationDTO(e *model.Evaluation) EvaluationDTO {
	out := EvaluationDTO{
		ID:             e.ID,
		EmployeeID:     e.EmployeeID,
		AppraiserID:    e.AppraiserID,
		Month:          e.Month,
		Year:           e.Year,
		BehaviorScore:  e.BehaviorScore,
		TechnicalScore: e.TechnicalScore,
		FinalScore:     e.FinalScore,
		Grade:          e.Grade,
		Feedback:       e.Feedback,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	for _, it := range e.Items {
		d := EvaluationItemDTO{
			ID:          it.ID,
			CriterionID: it.CriterionID,
			Target:      it.Target,
			Actual:      it.Actual,
			Weight:      it.Weight,
			Score:       it.Score,
			Comment:     it.Comment,
		}
		if it.Criterion != nil {
			d.Title = it.Criterion.Title
			d.Category = it.Criterion.Category
			d.Kind = string(it.Criterion.Type)
		}
		out.Items = append(out.Items, d)
	}
	return out
}
