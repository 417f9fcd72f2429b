package oracle

import "github.com/mindforge/forge_api/gameplay"

type OnboardingQuestion struct {
	ID       int      `json:"id"`
	Scenario string   `json:"scenario"`
	Options  []string `json:"options"`
}

type OnboardingAnswer struct {
	QuestionID  int `json:"questionId"`
	AnswerIndex int `json:"answerIndex"`
}

type Placement struct {
	Level int            `json:"level"`
	Stats gameplay.Stats `json:"stats"`
}

// Evaluation is the graded arena submission. NewStats holds per-stat gains,
// not absolute values.
type Evaluation struct {
	Score     int            `json:"score"`
	XPAwarded int            `json:"xp_awarded"`
	Summary   string         `json:"summary"`
	Fallacies []string       `json:"fallacies"`
	Strengths []string       `json:"strengths"`
	GrowthTip string         `json:"growth_tip"`
	NewStats  gameplay.Stats `json:"new_stats"`
}

type Scenario struct {
	Content string `json:"content"`
	Focus   string `json:"focus"`
	Offline bool   `json:"offline"`
}
