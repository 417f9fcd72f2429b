package oracle

import "github.com/mindforge/forge_api/gameplay"

const OfflineScenario = "# Offline Mode\nSystem couldn't reach the Oracle."

var fallbackQuestions = []OnboardingQuestion{
	{ID: 1, Scenario: "You find a wallet with $500. Rent is due tomorrow and you are short exactly that amount.", Options: []string{"Return it immediately", "Keep it for rent", "Return the wallet but keep the cash"}},
	{ID: 2, Scenario: "A colleague takes credit for your brilliant idea in a company-wide meeting.", Options: []string{"Confront them in the meeting", "Speak to them privately later", "Report it to your manager"}},
	{ID: 3, Scenario: "You read a viral social media post that perfectly aligns with your beliefs but has no sources.", Options: []string{"Share it immediately", "Search for a primary source", "Ignore it"}},
	{ID: 4, Scenario: "An old friend asks for honest feedback on their new startup idea, which you think is terrible.", Options: []string{"Tell them it's great to be supportive", "Explain exactly why it will fail", "Highlight risks and suggest pivots"}},
	{ID: 5, Scenario: "A cashier gives you $20 extra in change by mistake.", Options: []string{"Return it immediately", "Keep it as a 'bonus'", "Donate it to a nearby charity box"}},
	{ID: 6, Scenario: "You have two deadlines: one for your strict boss, and one for a colleague who helped you last week.", Options: []string{"Work on the boss's task first", "Help the colleague first", "Try to negotiate both deadlines"}},
	{ID: 7, Scenario: "Someone insults your intelligence in a professional online forum.", Options: []string{"Ignore and stay professional", "Draft a witty, sharp response", "Report the comment for harassment"}},
	{ID: 8, Scenario: "You witness a minor hit-and-run in a parking lot. No one else saw it.", Options: []string{"Record the plate and leave a note", "Mind your own business", "Call the police immediately"}},
	{ID: 9, Scenario: "Your company implements a new tool that is clearly less efficient than the old one.", Options: []string{"Use it without complaining", "Identify specific flaws and propose fixes", "Continue using the old tool in secret"}},
	{ID: 10, Scenario: "A trolley is speeding toward 5 workers. You can flip a switch to kill 1 worker instead.", Options: []string{"Flip the switch", "Do nothing", "Try to stop the trolley manually"}},
}

// FallbackQuestions returns a fresh copy of the built-in onboarding set.
func FallbackQuestions() []OnboardingQuestion {
	out := make([]OnboardingQuestion, len(fallbackQuestions))
	for i, q := range fallbackQuestions {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

func FallbackPlacement() Placement {
	return Placement{Level: 1, Stats: gameplay.Stats{Logic: 20, Flexibility: 20, Ethics: 20}}
}

func OfflineEvaluation() Evaluation {
	return Evaluation{
		Score:     0,
		XPAwarded: 0,
		Summary:   "Evaluation offline.",
		Fallacies: []string{},
		Strengths: []string{},
		GrowthTip: "Check logs.",
		NewStats:  gameplay.Stats{},
	}
}
