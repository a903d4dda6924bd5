package model

import (
	"time"

	"github.com/google/uuid"
)

// Evaluation is one appraiser's scored review of one employee for one
// month/year. The unique index on (employee_id, month, year) is what turns a
// concurrent double-create into a duplicate-key error instead of a second row.
// The three score fields and the grade are always recomputed server side;
// values sent by callers are ignored.
type Evaluation struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EmployeeID     uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_evaluations_employee_period,priority:1" json:"employee_id"`
	AppraiserID    uuid.UUID        `gorm:"type:uuid;not null" json:"appraiser_id"`
	Month          int              `gorm:"not null;uniqueIndex:idx_evaluations_employee_period,priority:2" json:"month"`
	Year           int              `gorm:"not null;uniqueIndex:idx_evaluations_employee_period,priority:3" json:"year"`
	BehaviorScore  float64          `gorm:"type:float" json:"behavior_score"`
	TechnicalScore float64          `gorm:"type:float" json:"technical_score"`
	FinalScore     float64          `gorm:"type:float" json:"final_score"`
	Grade          string           `gorm:"type:varchar(50)" json:"grade"`
	Feedback       string           `gorm:"type:text" json:"feedback"`
	Items          []EvaluationItem `gorm:"foreignKey:EvaluationID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (e *Evaluation) TableName() string {
	return "evaluations"
}

// EvaluationItem is one rated criterion inside an evaluation. Weight is the
// percentage of the technical bucket (0 for behavioral items); Score is 1-5.
type EvaluationItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EvaluationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"evaluation_id"`
	CriterionID  uuid.UUID  `gorm:"type:uuid;not null" json:"criterion_id"`
	Criterion    *Criterion `gorm:"foreignKey:CriterionID" json:"criterion,omitempty"`
	Target       string     `gorm:"type:text" json:"target"`
	Actual       string     `gorm:"type:text" json:"actual"`
	Weight       int        `gorm:"default:0" json:"weight"`
	Score        int        `gorm:"not null" json:"score"`
	Comment      string     `gorm:"type:text" json:"comment"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (i *EvaluationItem) TableName() string {
	return "evaluation_items"
}
