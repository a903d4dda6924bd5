package repository

import (
	"github.com/VZENNN/hrvenomdashboard/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EvaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db}
}

// Create inserts the evaluation with its items in one go. A duplicate
// (employee, month, year) key surfaces as gorm.ErrDuplicatedKey.
func (r *EvaluationRepository) Create(eval *model.Evaluation) error {
	return r.db.Create(eval).Error
}

func (r *EvaluationRepository) FindByID(id uuid.UUID) (*model.Evaluation, error) {
	var eval model.Evaluation
	err := r.db.
		Preload("Items.Criterion").
		First(&eval, "id = ?", id).Error
	return &eval, err
}

// ListByEmployeeYear returns the employee's evaluations for a year, month
// ascending, without item detail.
func (r *EvaluationRepository) ListByEmployeeYear(employeeID uuid.UUID, year int) ([]model.Evaluation, error) {
	var evals []model.Evaluation
	err := r.db.
		Where("employee_id = ? AND year = ?", employeeID, year).
		Order("month asc").
		Find(&evals).Error
	return evals, err
}

// ReplaceItems swaps the full item set and the recomputed scores atomically.
// Old and new items never coexist outside the transaction, and a crash
// mid-replace rolls back to the prior set.
func (r *EvaluationRepository) ReplaceItems(eval *model.Evaluation, items []model.EvaluationItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("evaluation_id = ?", eval.ID).Delete(&model.EvaluationItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].EvaluationID = eval.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		return tx.Model(&model.Evaluation{}).
			Where("id = ?", eval.ID).
			Updates(map[string]any{
				"behavior_score":  eval.BehaviorScore,
				"technical_score": eval.TechnicalScore,
				"final_score":     eval.FinalScore,
				"grade":           eval.Grade,
				"feedback":        eval.Feedback,
			}).Error
	})
}

// Delete removes the evaluation and cascades to its items.
func (r *EvaluationRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("evaluation_id = ?", id).Delete(&model.EvaluationItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Evaluation{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// TopByPeriod lists the highest final scores for a month/year window, a
// read-only feed for employee-of-the-month style views.
func (r *EvaluationRepository) TopByPeriod(month, year, limit int) ([]model.Evaluation, error) {
	var evals []model.Evaluation
	err := r.db.
		Where("month = ? AND year = ?", month, year).
		Order("final_score desc").
		Limit(limit).
		Find(&evals).Error
	return evals, err
}
