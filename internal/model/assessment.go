package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type QuestionType string

const (
	QuestionTypeEssay          QuestionType = "ESSAY"
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeMostAndLeast   QuestionType = "MOST_AND_LEAST"
)

// AssessmentCategory is one timed section of the psychometric test, taken in
// ascending SortOrder. TimeLimit is in seconds.
type AssessmentCategory struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	TimeLimit   int        `gorm:"not null" json:"time_limit"`
	SortOrder   int        `gorm:"column:sort_order;not null;index" json:"order"`
	Questions   []Question `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (c *AssessmentCategory) TableName() string {
	return "assessment_categories"
}

// Option is one selectable choice of a MULTIPLE_CHOICE or MOST_AND_LEAST
// question. Label is the short key ("A", "B", ...) answers refer to.
type Option struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// OptionList stores the ordered option set as a jsonb column.
type OptionList []Option

func (o OptionList) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

func (o *OptionList) Scan(value any) error {
	if value == nil {
		*o = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	default:
		return fmt.Errorf("cannot scan %T into OptionList", value)
	}
}

type Question struct {
	ID         uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CategoryID uuid.UUID    `gorm:"type:uuid;not null;index" json:"category_id"`
	Content    string       `gorm:"type:text;not null" json:"content"`
	Type       QuestionType `gorm:"type:varchar(30);not null" json:"type"`
	Options    OptionList   `gorm:"type:jsonb" json:"options,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

func (q *Question) TableName() string {
	return "assessment_questions"
}

// AnswerValue is the answer to a single question. ESSAY and MULTIPLE_CHOICE
// answers carry Text; MOST_AND_LEAST answers carry the two label picks. On the
// wire and in jsonb it is either a plain string or a {most, least} object.
type AnswerValue struct {
	Text  string `json:"-"`
	Most  string `json:"most,omitempty"`
	Least string `json:"least,omitempty"`
}

// IsIpsative reports whether the value carries most/least picks.
func (v AnswerValue) IsIpsative() bool {
	return v.Most != "" || v.Least != ""
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.IsIpsative() {
		return json.Marshal(struct {
			Most  string `json:"most"`
			Least string `json:"least"`
		}{v.Most, v.Least})
	}
	return json.Marshal(v.Text)
}

func (v *AnswerValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = AnswerValue{Text: s}
		return nil
	}
	var pair struct {
		Most  string `json:"most"`
		Least string `json:"least"`
	}
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	*v = AnswerValue{Most: pair.Most, Least: pair.Least}
	return nil
}

// AnswerMap maps question IDs to answers, stored as a jsonb column.
type AnswerMap map[string]AnswerValue

func (a AnswerMap) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal(AnswerMap{})
	}
	return json.Marshal(a)
}

func (a *AnswerMap) Scan(value any) error {
	if value == nil {
		*a = AnswerMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("cannot scan %T into AnswerMap", value)
	}
}

// AssessmentResult is the single completed attempt of one applicant on one
// category. The unique index on (applicant_id, category_id) backs the
// create-if-absent submission policy: the first write wins, later submissions
// for the same pair are discarded.
type AssessmentResult struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ApplicantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_results_applicant_category,priority:1" json:"applicant_id"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_results_applicant_category,priority:2" json:"category_id"`
	Answers     AnswerMap `gorm:"type:jsonb" json:"answers"`
	Expired     bool      `gorm:"default:false" json:"expired"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r *AssessmentResult) TableName() string {
	return "assessment_results"
}
