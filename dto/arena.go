package dto

import (
	"github.com/mindforge/forge_api/gameplay"
	"github.com/mindforge/forge_api/oracle"
)

type OnboardingStateResponse struct {
	Completed bool                        `json:"completed"`
	Step      int                         `json:"step"`
	Total     int                         `json:"total"`
	Questions []oracle.OnboardingQuestion `json:"questions,omitempty"`
	Answers   []oracle.OnboardingAnswer   `json:"answers,omitempty"`
}

type AnswerOnboardingRequest struct {
	QuestionID  int  `json:"question_id" validate:"required,min=1"`
	AnswerIndex *int `json:"answer_index" validate:"required,min=0,max=9"`
}

type AnswerOnboardingResponse struct {
	State     OnboardingStateResponse `json:"state"`
	Placement *oracle.Placement       `json:"placement,omitempty"`
	Profile   *ProfileResponse        `json:"profile,omitempty"`
}

type ArenaScenario struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Focus   string `json:"focus"`
	Offline bool   `json:"offline"`
}

type StartArenaResponse struct {
	Started  bool           `json:"started"`
	Message  string         `json:"message,omitempty"`
	Energy   EnergyResponse `json:"energy"`
	Scenario *ArenaScenario `json:"scenario,omitempty"`
}

type SubmitArenaRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required,uuid"`
	Response   string `json:"response" validate:"required,not_blank,max=5000"`
}

type SubmitArenaResponse struct {
	ResultID   string            `json:"result_id"`
	Evaluation oracle.Evaluation `json:"evaluation"`
	XP         int               `json:"xp"`
	Level      int               `json:"level"`
	LeveledUp  bool              `json:"leveled_up"`
	Stats      gameplay.Stats    `json:"stats"`
}

func (r *AnswerOnboardingRequest) Validate() error {
	return Validate(r)
}

func (r *SubmitArenaRequest) Validate() error {
	return Validate(r)
}
