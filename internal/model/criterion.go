package model

import (
	"time"

	"github.com/google/uuid"
)

type KpiType string

const (
	KpiTypeBehavioral KpiType = "BEHAVIORAL"
	KpiTypeTechnical  KpiType = "TECHNICAL"
)

// Criterion is a single evaluable trait (behavioral) or objective (technical).
// Behavioral criteria are global; technical criteria are scoped to a department
// and optionally to a position. A nil Position acts as a department-wide fallback.
type Criterion struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Category      string     `gorm:"type:varchar(100)" json:"category"`
	Description   string     `gorm:"type:text" json:"description"`
	Type          KpiType    `gorm:"type:varchar(20);not null;index" json:"type"`
	DepartmentID  *uuid.UUID `gorm:"type:uuid;index" json:"department_id"`
	Position      *string    `gorm:"type:varchar(100)" json:"position"`
	DefaultWeight int        `gorm:"default:0" json:"default_weight"` // advisory, 0-100
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (c *Criterion) TableName() string {
	return "kpi_criteria"
}
