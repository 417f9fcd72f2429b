package oracle

import (
	"fmt"
	"strings"

	"github.com/mindforge/forge_api/gameplay"
)

const onboardingQuestionsPrompt = `You are the "Oracle" of MindForge. Generate 10 progressive critical thinking scenarios to assess a newcomer's baseline.
The scenarios must cover:
1. Deductive Logic
2. Cognitive Bias Identification
3. Ethical Utilitarianism
4. Dialectical Reasoning
5. Informational Literacy

Format: JSON ARRAY ONLY. NO MARKDOWN.
Each object: {"id": number, "scenario": "...", "options": ["Option A (Logical)", "Option B (Fallback)", "Option C (Emotional)"]}

Make them intellectually stimulating but accessible.`

const placementPrompt = `Analyst Assessment Protocol.
User Answers (index 0=A, 1=B, 2=C): %s

Evaluate their cognitive profile based on these %d answers.
- Level 1: Novice (Basic intuition)
- Level 2: Apprentice (Consistent patterns)
- Level 3: Analyst (Systematic approach)
- Level 4: Strategist (Nuanced complexity)
- Level 5: Master (Superior dialectics)

Return JSON ONLY: {"level": number, "stats": {"logic": 10-100, "flexibility": 10-100, "ethics": 10-100}}`

const scenarioPrompt = `Generate a Level %d Critical Thinking Arena Scenario.
Target User Focus: %s
Difficulty: %s
Subject: High-stakes ethical or logical crisis (e.g., AI alignment, resource scarcity, legal paradox).

Structure in Markdown:
# [Provocative Title]
**Situation**: [2-3 sentences of context]
**The Dilemma**: [The core problem requiring deep thought]
**The Task**: [Specifically what the user must argue or solve]

Make it feel "Cyberpunk/Deep Space" in tone.`

const evaluationPrompt = `Act as the High Oracle of Logic. Evaluate this Arena submission.
Scenario: %s
User Response: %s

Critique strictly but fairly. Identify logical fallacies and cognitive strengths.

Return JSON ONLY:
{
  "score": 0-100,
  "xp_awarded": 0-200,
  "summary": "Short, punchy critique",
  "fallacies": ["List specific fallacies if any"],
  "strengths": ["List specific strengths"],
  "growth_tip": "One actionable tip to improve thinking",
  "new_stats": {"logic": 0-5, "flexibility": 0-5, "ethics": 0-5}
}`

func focusArea(stats *gameplay.Stats) string {
	if stats == nil {
		return "General Critical Thinking"
	}
	name := stats.Lowest()
	var value int
	switch name {
	case "flexibility":
		value = stats.Flexibility
	case "ethics":
		value = stats.Ethics
	default:
		value = stats.Logic
	}
	return fmt.Sprintf("Improving Weakness: %s (Current Score: %d)", strings.ToUpper(name), value)
}

func difficulty(lastScore *int) string {
	switch {
	case lastScore == nil:
		return "Standard"
	case *lastScore >= 80:
		return fmt.Sprintf("Harder than the previous round (last score %d). Add a second competing constraint.", *lastScore)
	case *lastScore < 40:
		return fmt.Sprintf("Gentler than the previous round (last score %d). Keep a single clear dilemma.", *lastScore)
	default:
		return fmt.Sprintf("Similar to the previous round (last score %d).", *lastScore)
	}
}
