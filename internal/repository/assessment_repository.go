package repository

import (
	"github.com/VZENNN/hrvenomdashboard/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{db}
}

// ListCategories returns the catalog in test order with questions preloaded.
func (r *AssessmentRepository) ListCategories() ([]model.AssessmentCategory, error) {
	var categories []model.AssessmentCategory
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Order("sort_order asc").
		Find(&categories).Error
	return categories, err
}

func (r *AssessmentRepository) FindCategory(id uuid.UUID) (*model.AssessmentCategory, error) {
	var category model.AssessmentCategory
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		First(&category, "id = ?", id).Error
	return &category, err
}

func (r *AssessmentRepository) HasResult(applicantID, categoryID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.AssessmentResult{}).
		Where("applicant_id = ? AND category_id = ?", applicantID, categoryID).
		Count(&count).Error
	return count > 0, err
}

// ListCompletedCategoryIDs returns the category IDs the applicant has a result
// for.
func (r *AssessmentRepository) ListCompletedCategoryIDs(applicantID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&model.AssessmentResult{}).
		Where("applicant_id = ?", applicantID).
		Pluck("category_id", &ids).Error
	return ids, err
}

// CreateResultIfAbsent inserts the result unless one already exists for the
// (applicant, category) pair. On conflict nothing is written and the stored
// answers stay untouched; the returned bool tells whether this call created
// the record. The conditional insert is what makes concurrent double-submits
// safe without locking.
func (r *AssessmentRepository) CreateResultIfAbsent(result *model.AssessmentResult) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "applicant_id"}, {Name: "category_id"}},
		DoNothing: true,
	}).Create(result)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListResults pages through stored results, optionally filtered by applicant,
// newest first.
func (r *AssessmentRepository) ListResults(applicantID *uuid.UUID, page, pageSize int) ([]model.AssessmentResult, int64, error) {
	query := r.db.Model(&model.AssessmentResult{})
	if applicantID != nil {
		query = query.Where("applicant_id = ?", *applicantID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []model.AssessmentResult
	err := query.
		Order("created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&results).Error
	return results, total, err
}
