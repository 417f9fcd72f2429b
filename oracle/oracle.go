package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mindforge/forge_api/gameplay"
	"github.com/mindforge/forge_api/shared"
	log "github.com/sirupsen/logrus"
)

var (
	errNullAnswer           = errors.New("oracle: null answer")
	errIncompleteEvaluation = errors.New("oracle: evaluation without summary")
)

const (
	OpOnboardingQuestions = "onboarding_questions"
	OpPlacement           = "placement"
	OpScenario            = "scenario"
	OpEvaluation          = "evaluation"
)

// FallbackHook is called whenever an operation answers with its offline value.
type FallbackHook func(operation string, err error)

// Oracle turns generated text into game content. It never fails: when the
// generator is unavailable or answers with garbage, each operation returns
// its fixed offline value.
type Oracle struct {
	gen        Generator
	onFallback FallbackHook
}

func New(gen Generator, onFallback FallbackHook) *Oracle {
	return &Oracle{gen: gen, onFallback: onFallback}
}

func (o *Oracle) fallback(op string, err error) {
	log.WithFields(log.Fields{"operation": op}).WithError(err).Warn("Oracle falling back to offline content")
	if o.onFallback != nil {
		o.onFallback(op, err)
	}
}

func (o *Oracle) GenerateOnboardingQuestions(ctx context.Context) []OnboardingQuestion {
	text, err := o.gen.Generate(ctx, onboardingQuestionsPrompt)
	if err != nil {
		o.fallback(OpOnboardingQuestions, err)
		return FallbackQuestions()
	}

	var questions []OnboardingQuestion
	if err := DecodeJSON(text, &questions); err != nil {
		o.fallback(OpOnboardingQuestions, err)
		return FallbackQuestions()
	}

	valid := questions[:0]
	for _, q := range questions {
		if q.Scenario != "" && len(q.Options) > 0 {
			valid = append(valid, q)
		}
	}
	if len(valid) == 0 {
		o.fallback(OpOnboardingQuestions, errors.New("no usable questions"))
		return FallbackQuestions()
	}
	return valid
}

func (o *Oracle) EvaluateOnboarding(ctx context.Context, answers []OnboardingAnswer) Placement {
	encoded, err := shared.JSONAPI.MarshalToString(answers)
	if err != nil {
		o.fallback(OpPlacement, err)
		return FallbackPlacement()
	}

	text, err := o.gen.Generate(ctx, fmt.Sprintf(placementPrompt, encoded, len(answers)))
	if err != nil {
		o.fallback(OpPlacement, err)
		return FallbackPlacement()
	}

	var placement *Placement
	if err := DecodeJSON(text, &placement); err != nil {
		o.fallback(OpPlacement, err)
		return FallbackPlacement()
	}
	if placement == nil {
		o.fallback(OpPlacement, errNullAnswer)
		return FallbackPlacement()
	}

	placement.Level = min(max(placement.Level, 1), 5)
	placement.Stats = gameplay.ClampStats(placement.Stats)
	return *placement
}

// GenerateScenario writes an arena prompt aimed at the weakest stat, with the
// difficulty nudged by the previous arena score.
func (o *Oracle) GenerateScenario(ctx context.Context, level int, stats *gameplay.Stats, lastScore *int) Scenario {
	focus := "general"
	if stats != nil {
		focus = stats.Lowest()
	}

	text, err := o.gen.Generate(ctx, fmt.Sprintf(scenarioPrompt, max(level, 1), focusArea(stats), difficulty(lastScore)))
	if err != nil {
		o.fallback(OpScenario, err)
		return Scenario{Content: OfflineScenario, Focus: focus, Offline: true}
	}
	return Scenario{Content: text, Focus: focus}
}

func (o *Oracle) EvaluateSubmission(ctx context.Context, scenario, response string) Evaluation {
	text, err := o.gen.Generate(ctx, fmt.Sprintf(evaluationPrompt, scenario, response))
	if err != nil {
		o.fallback(OpEvaluation, err)
		return OfflineEvaluation()
	}

	// Evaluations are never repaired.
	var eval *Evaluation
	if err := DecodeStrictJSON(text, &eval); err != nil {
		o.fallback(OpEvaluation, err)
		return OfflineEvaluation()
	}
	if eval == nil {
		o.fallback(OpEvaluation, errNullAnswer)
		return OfflineEvaluation()
	}
	if strings.TrimSpace(eval.Summary) == "" {
		o.fallback(OpEvaluation, errIncompleteEvaluation)
		return OfflineEvaluation()
	}
	return sanitize(*eval)
}

func sanitize(e Evaluation) Evaluation {
	e.Score = min(max(e.Score, 0), 100)
	e.XPAwarded = min(max(e.XPAwarded, 0), 200)
	e.NewStats = gameplay.ClampGains(e.NewStats)
	if e.Fallacies == nil {
		e.Fallacies = []string{}
	}
	if e.Strengths == nil {
		e.Strengths = []string{}
	}
	return e
}
