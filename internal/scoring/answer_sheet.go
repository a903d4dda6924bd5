package scoring

import (
	"github.com/VZENNN/hrvenomdashboard/internal/model"
)

// AnswerSheet collects in-progress answers for one category attempt and keeps
// the ipsative invariant: for MOST_AND_LEAST questions the same label never
// occupies both slots. Picking a label that currently sits in the other slot
// clears the other slot rather than rejecting the pick.
type AnswerSheet struct {
	answers model.AnswerMap
}

func NewAnswerSheet() *AnswerSheet {
	return &AnswerSheet{answers: model.AnswerMap{}}
}

// SetText records an ESSAY or MULTIPLE_CHOICE answer.
func (s *AnswerSheet) SetText(questionID, text string) {
	s.answers[questionID] = model.AnswerValue{Text: text}
}

// SetMost records the "most" pick, evicting the same label from "least".
func (s *AnswerSheet) SetMost(questionID, label string) {
	cur := s.answers[questionID]
	cur.Text = ""
	cur.Most = label
	if cur.Least == label {
		cur.Least = ""
	}
	s.answers[questionID] = cur
}

// SetLeast records the "least" pick, evicting the same label from "most".
func (s *AnswerSheet) SetLeast(questionID, label string) {
	cur := s.answers[questionID]
	cur.Text = ""
	cur.Least = label
	if cur.Most == label {
		cur.Most = ""
	}
	s.answers[questionID] = cur
}

// Answers returns the collected map.
func (s *AnswerSheet) Answers() model.AnswerMap {
	return s.answers
}

// SanitizeAnswers normalizes a raw submission against the category's question
// set. Answers for unknown questions are dropped, blank answers are treated
// as absent, and ipsative answers are checked against the option labels with
// the mutual-exclusion rule applied (most wins, least is cleared). Unanswered
// questions are simply missing from the returned map; they never block a
// submission.
func SanitizeAnswers(questions []model.Question, raw model.AnswerMap) model.AnswerMap {
	out := model.AnswerMap{}
	for _, q := range questions {
		val, ok := raw[q.ID.String()]
		if !ok {
			continue
		}
		switch q.Type {
		case model.QuestionTypeMostAndLeast:
			most := val.Most
			least := val.Least
			if !hasLabel(q.Options, most) {
				most = ""
			}
			if !hasLabel(q.Options, least) {
				least = ""
			}
			if most != "" && most == least {
				least = ""
			}
			if most == "" && least == "" {
				continue
			}
			out[q.ID.String()] = model.AnswerValue{Most: most, Least: least}
		default:
			if val.Text == "" {
				continue
			}
			out[q.ID.String()] = model.AnswerValue{Text: val.Text}
		}
	}
	return out
}

func hasLabel(options model.OptionList, label string) bool {
	if label == "" {
		return false
	}
	for _, opt := range options {
		if opt.Label == label {
			return true
		}
	}
	return false
}
