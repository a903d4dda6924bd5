package repository

import (
	"github.com/VZENNN/hrvenomdashboard/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CriterionRepository reads the KPI criterion catalog. The catalog is owned by
// the surrounding HR application; the engine only consumes it.
type CriterionRepository struct {
	db *gorm.DB
}

func NewCriterionRepository(db *gorm.DB) *CriterionRepository {
	return &CriterionRepository{db}
}

// ListBehavioral returns the global behavioral criteria.
func (r *CriterionRepository) ListBehavioral() ([]model.Criterion, error) {
	var criteria []model.Criterion
	err := r.db.
		Where("type = ?", model.KpiTypeBehavioral).
		Order("title asc").
		Find(&criteria).Error
	return criteria, err
}

// ListTechnical returns the technical criteria applicable to an employee: the
// department must match exactly, the position either matches exactly or is
// null (the department-wide fallback). Both clauses can apply at once.
func (r *CriterionRepository) ListTechnical(departmentID uuid.UUID, position string) ([]model.Criterion, error) {
	var criteria []model.Criterion
	err := r.db.
		Where("type = ?", model.KpiTypeTechnical).
		Where("department_id = ?", departmentID).
		Where("position = ? OR position IS NULL", position).
		Order("title asc").
		Find(&criteria).Error
	return criteria, err
}

// FindByIDs returns the criteria for the given IDs, keyed by ID.
func (r *CriterionRepository) FindByIDs(ids []uuid.UUID) (map[uuid.UUID]model.Criterion, error) {
	var criteria []model.Criterion
	if err := r.db.Where("id IN ?", ids).Find(&criteria).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]model.Criterion, len(criteria))
	for _, c := range criteria {
		out[c.ID] = c
	}
	return out, nil
}
