package services

import (
	"context"
	"errors"
	"time"

	"github.com/mindforge/forge_api/dto"
	"github.com/mindforge/forge_api/gameplay"
	"github.com/mindforge/forge_api/model"
	"github.com/mindforge/forge_api/oracle"
	"github.com/mindforge/forge_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ==================== ONBOARDING ====================

// GetOnboarding returns the placement questionnaire, generating it on first
// request. The questions are kept on the profile so a user resumes where
// they stopped.
func (svc *GameService) GetOnboarding(ctx context.Context, userID string) (*dto.OnboardingStateResponse, error) {
	p, _, err := svc.loadProfile(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	if p.OnboardingCompleted || p.OnboardingQuestions != "" {
		return onboardingState(p)
	}

	questions := svc.oracle.GenerateOnboardingQuestions(ctx)
	encoded, err := shared.JSONAPI.MarshalToString(questions)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode onboarding questions")
	}

	p, _, err = svc.mutateProfile(ctx, userID, func(p *model.Profile, _ time.Time) (bool, error) {
		if p.OnboardingCompleted || p.OnboardingQuestions != "" {
			return false, nil
		}
		p.OnboardingQuestions = encoded
		p.OnboardingAnswers = ""
		p.OnboardingStep = 0
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return onboardingState(p)
}

// AnswerOnboarding records one answer. The answer to the last question
// triggers placement, which sets level, stats and the welcome bonus.
func (svc *GameService) AnswerOnboarding(ctx context.Context, userID string, req dto.AnswerOnboardingRequest) (*dto.AnswerOnboardingResponse, error) {
	answer := oracle.OnboardingAnswer{QuestionID: req.QuestionID, AnswerIndex: *req.AnswerIndex}

	var answers []oracle.OnboardingAnswer
	var questionCount int
	p, _, err := svc.mutateProfile(ctx, userID, func(p *model.Profile, _ time.Time) (bool, error) {
		if p.OnboardingCompleted {
			return false, shared.NewConflictError(nil, "Onboarding already completed")
		}

		questions, err := decodeQuestions(p.OnboardingQuestions)
		if err != nil {
			return false, err
		}
		if len(questions) == 0 {
			return false, shared.NewBadRequestError(nil, "Onboarding has not been started")
		}
		question, ok := findQuestion(questions, answer.QuestionID)
		if !ok {
			return false, shared.NewBadRequestError(nil, "Unknown onboarding question")
		}
		if answer.AnswerIndex >= len(question.Options) {
			return false, shared.NewBadRequestError(nil, "Answer index out of range")
		}

		answers, err = decodeAnswers(p.OnboardingAnswers)
		if err != nil {
			return false, err
		}
		answers = upsertAnswer(answers, answer)
		questionCount = len(questions)

		encoded, err := shared.JSONAPI.MarshalToString(answers)
		if err != nil {
			return false, shared.NewInternalError(err, "Failed to encode onboarding answers")
		}
		p.OnboardingAnswers = encoded
		p.OnboardingStep = len(answers)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if len(answers) < questionCount {
		state, err := onboardingState(p)
		if err != nil {
			return nil, err
		}
		return &dto.AnswerOnboardingResponse{State: *state}, nil
	}

	return svc.completeOnboarding(ctx, userID, answers)
}

func (svc *GameService) completeOnboarding(ctx context.Context, userID string, answers []oracle.OnboardingAnswer) (*dto.AnswerOnboardingResponse, error) {
	placement := svc.oracle.EvaluateOnboarding(ctx, answers)

	p, changed, err := svc.mutateProfile(ctx, userID, func(p *model.Profile, now time.Time) (bool, error) {
		if p.OnboardingCompleted {
			return false, nil
		}
		svc.regenerate(p, now)
		p.OnboardingCompleted = true
		p.SetStats(gameplay.ClampStats(placement.Stats))
		p.SetXP(max(p.XP, gameplay.XPForLevel(placement.Level)+shared.WelcomeBonus))
		return true, nil
	})
	if err != nil {
		log.WithField("user_id", userID).WithError(err).Error("Failed to complete onboarding")
		return nil, err
	}

	if changed {
		svc.recordScore(ctx, p)
		log.WithFields(log.Fields{"user_id": userID, "level": p.Level}).Info("Onboarding completed")
	}

	state, err := onboardingState(p)
	if err != nil {
		return nil, err
	}
	return &dto.AnswerOnboardingResponse{
		State:     *state,
		Placement: &placement,
		Profile:   svc.toProfileResponse(p),
	}, nil
}

func onboardingState(p *model.Profile) (*dto.OnboardingStateResponse, error) {
	questions, err := decodeQuestions(p.OnboardingQuestions)
	if err != nil {
		return nil, err
	}
	answers, err := decodeAnswers(p.OnboardingAnswers)
	if err != nil {
		return nil, err
	}
	return &dto.OnboardingStateResponse{
		Completed: p.OnboardingCompleted,
		Step:      p.OnboardingStep,
		Total:     len(questions),
		Questions: questions,
		Answers:   answers,
	}, nil
}

func decodeQuestions(encoded string) ([]oracle.OnboardingQuestion, error) {
	if encoded == "" {
		return nil, nil
	}
	var questions []oracle.OnboardingQuestion
	if err := shared.JSONAPI.UnmarshalFromString(encoded, &questions); err != nil {
		return nil, shared.NewInternalError(err, "Stored onboarding questions are unreadable")
	}
	return questions, nil
}

func decodeAnswers(encoded string) ([]oracle.OnboardingAnswer, error) {
	if encoded == "" {
		return nil, nil
	}
	var answers []oracle.OnboardingAnswer
	if err := shared.JSONAPI.UnmarshalFromString(encoded, &answers); err != nil {
		return nil, shared.NewInternalError(err, "Stored onboarding answers are unreadable")
	}
	return answers, nil
}

func findQuestion(questions []oracle.OnboardingQuestion, id int) (oracle.OnboardingQuestion, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return oracle.OnboardingQuestion{}, false
}

// upsertAnswer replaces an earlier answer to the same question.
func upsertAnswer(answers []oracle.OnboardingAnswer, a oracle.OnboardingAnswer) []oracle.OnboardingAnswer {
	out := make([]oracle.OnboardingAnswer, 0, len(answers)+1)
	for _, existing := range answers {
		if existing.QuestionID != a.QuestionID {
			out = append(out, existing)
		}
	}
	return append(out, a)
}

// ==================== ARENA ====================

// StartArena spends one energy unit and hands out a scenario aimed at the
// user's weakest stat.
func (svc *GameService) StartArena(ctx context.Context, userID string) (*dto.StartArenaResponse, error) {
	energy, err := svc.ConsumeEnergy(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !energy.Success {
		return &dto.StartArenaResponse{Started: false, Message: energy.Message, Energy: *energy}, nil
	}

	p, _, err := svc.loadProfile(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	stats := p.Stats()
	generated := svc.oracle.GenerateScenario(ctx, p.Level, &stats, p.LastArenaScore)

	scenario, err := svc.db.Scenarios.CreateScenario(ctx, &model.Scenario{
		UserID:    userID,
		Content:   generated.Content,
		Focus:     generated.Focus,
		Offline:   generated.Offline,
		CreatedAt: svc.now(),
	})
	if err != nil {
		log.WithField("user_id", userID).WithError(err).Error("Failed to save arena scenario")
		svc.refundEnergy(ctx, userID)
		return nil, svc.db.HandleError(err)
	}

	return &dto.StartArenaResponse{
		Started: true,
		Energy:  *energy,
		Scenario: &dto.ArenaScenario{
			ID:      scenario.ID,
			Content: scenario.Content,
			Focus:   scenario.Focus,
			Offline: scenario.Offline,
		},
	}, nil
}

// SubmitArena grades a response to a scenario handed out by StartArena.
// A scenario is graded once; a failed submission frees it for another try.
func (svc *GameService) SubmitArena(ctx context.Context, userID string, req dto.SubmitArenaRequest) (*dto.SubmitArenaResponse, error) {
	scenario, err := svc.db.Scenarios.GetScenario(ctx, req.ScenarioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Scenario not found")
		}
		return nil, svc.db.HandleError(err)
	}
	if scenario.UserID != userID {
		return nil, shared.NewNotFoundError(nil, "Scenario not found")
	}

	claimed, err := svc.db.Scenarios.ClaimScenario(ctx, scenario.ID, userID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}
	if !claimed {
		return nil, shared.NewConflictError(nil, "Scenario already submitted")
	}

	eval := svc.oracle.EvaluateSubmission(ctx, scenario.Content, req.Response)
	outcome := map[string]interface{}{
		"scenario":   scenario.Content,
		"focus":      scenario.Focus,
		"response":   req.Response,
		"evaluation": eval,
	}

	scenarioID := scenario.ID
	score := eval.Score
	result, p, leveledUp, err := svc.applyOutcome(ctx, userID, &scenarioID, outcome, eval.XPAwarded, eval.NewStats, &score)
	if err != nil {
		if releaseErr := svc.db.Scenarios.ReleaseScenario(ctx, scenario.ID); releaseErr != nil {
			log.WithField("scenario_id", scenario.ID).WithError(releaseErr).Error("Failed to release scenario")
		}
		return nil, err
	}

	return &dto.SubmitArenaResponse{
		ResultID:   result.ID,
		Evaluation: eval,
		XP:         p.XP,
		Level:      p.Level,
		LeveledUp:  leveledUp,
		Stats:      p.Stats(),
	}, nil
}

// refundEnergy gives back the unit spent on an arena run that never got a
// scenario.
func (svc *GameService) refundEnergy(ctx context.Context, userID string) {
	_, _, err := svc.mutateProfile(ctx, userID, func(p *model.Profile, now time.Time) (bool, error) {
		regenerated := gameplay.Regenerate(p.EnergyState(), now, svc.rules)
		p.SetEnergyState(gameplay.Refund(regenerated, svc.rules))
		return true, nil
	})
	if err != nil {
		log.WithField("user_id", userID).WithError(err).Error("Failed to refund arena energy")
	}
}
