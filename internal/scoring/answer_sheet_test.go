package scoring

import (
	"testing"

	"github.com/VZENNN/hrvenomdashboard/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerSheet_MostEvictsLeast(t *testing.T) {
	s := NewAnswerSheet()
	s.SetLeast("q1", "A")
	s.SetMost("q1", "A")

	got := s.Answers()["q1"]
	assert.Equal(t, "A", got.Most)
	assert.Equal(t, "", got.Least)
}

func TestAnswerSheet_LeastEvictsMost(t *testing.T) {
	s := NewAnswerSheet()
	s.SetMost("q1", "B")
	s.SetLeast("q1", "B")

	got := s.Answers()["q1"]
	assert.Equal(t, "", got.Most)
	assert.Equal(t, "B", got.Least)
}

func TestAnswerSheet_DistinctLabelsCoexist(t *testing.T) {
	s := NewAnswerSheet()
	s.SetMost("q1", "A")
	s.SetLeast("q1", "C")

	got := s.Answers()["q1"]
	assert.Equal(t, "A", got.Most)
	assert.Equal(t, "C", got.Least)
}

func TestAnswerSheet_RepickingSameSlotReplaces(t *testing.T) {
	s := NewAnswerSheet()
	s.SetMost("q1", "A")
	s.SetMost("q1", "B")

	got := s.Answers()["q1"]
	assert.Equal(t, "B", got.Most)
	assert.Equal(t, "", got.Least)
}

func mostLeastQuestion() model.Question {
	return model.Question{
		ID:   uuid.New(),
		Type: model.QuestionTypeMostAndLeast,
		Options: model.OptionList{
			{Label: "A", Text: "I take charge"},
			{Label: "B", Text: "I follow through"},
			{Label: "C", Text: "I keep the peace"},
		},
	}
}

func TestSanitizeAnswers_MostWinsOnCollision(t *testing.T) {
	q := mostLeastQuestion()
	raw := model.AnswerMap{
		q.ID.String(): {Most: "A", Least: "A"},
	}

	got := SanitizeAnswers([]model.Question{q}, raw)
	require.Contains(t, got, q.ID.String())
	assert.Equal(t, "A", got[q.ID.String()].Most)
	assert.Equal(t, "", got[q.ID.String()].Least)
}

func TestSanitizeAnswers_UnknownLabelDropped(t *testing.T) {
	q := mostLeastQuestion()
	raw := model.AnswerMap{
		q.ID.String(): {Most: "Z", Least: "B"},
	}

	got := SanitizeAnswers([]model.Question{q}, raw)
	require.Contains(t, got, q.ID.String())
	assert.Equal(t, "", got[q.ID.String()].Most)
	assert.Equal(t, "B", got[q.ID.String()].Least)
}

func TestSanitizeAnswers_UnansweredQuestionsAbsent(t *testing.T) {
	q := mostLeastQuestion()
	essay := model.Question{ID: uuid.New(), Type: model.QuestionTypeEssay}

	got := SanitizeAnswers([]model.Question{q, essay}, model.AnswerMap{})
	assert.Empty(t, got)
}

func TestSanitizeAnswers_UnknownQuestionDropped(t *testing.T) {
	q := mostLeastQuestion()
	raw := model.AnswerMap{
		uuid.NewString(): {Text: "stray"},
	}

	got := SanitizeAnswers([]model.Question{q}, raw)
	assert.Empty(t, got)
}

func TestSanitizeAnswers_TextAnswersKept(t *testing.T) {
	essay := model.Question{ID: uuid.New(), Type: model.QuestionTypeEssay}
	mc := model.Question{
		ID:   uuid.New(),
		Type: model.QuestionTypeMultipleChoice,
		Options: model.OptionList{
			{Label: "A", Text: "Red"},
			{Label: "B", Text: "Blue"},
		},
	}
	raw := model.AnswerMap{
		essay.ID.String(): {Text: "free text"},
		mc.ID.String():    {Text: "Blue"},
	}

	got := SanitizeAnswers([]model.Question{essay, mc}, raw)
	assert.Equal(t, "free text", got[essay.ID.String()].Text)
	assert.Equal(t, "Blue", got[mc.ID.String()].Text)
}
