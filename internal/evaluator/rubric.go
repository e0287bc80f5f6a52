package evaluator

import (
	"fmt"
	"strings"
)

// fdFramework is the fixed Force Dynamics rubric (Talmy, 2000) included in
// every evaluation prompt.
const fdFramework = `
Force Dynamics (Talmy, 2000) Framework:

CORE CONCEPTS:
- Agonist: The entity whose situation is being described (typically the subject)
- Antagonist: The opposing force entity (may be explicit or implicit)
- Force Relations: How Agonist and Antagonist interact

FORCE RELATION TYPES:
1. Causation: Antagonist causes Agonist to act/change state
2. Permission/Letting: Antagonist allows Agonist to act
3. Blocking/Prevention: Antagonist prevents Agonist from acting
4. Overcoming: Agonist overcomes opposing force
`

// DefaultEvaluationSystemPrompt is used when the configuration does not
// override prompts.evaluation_system.
const DefaultEvaluationSystemPrompt = "You are an expert linguist specializing in Force Dynamics analysis " +
	"of verb phrases. You evaluate translations rigorously and respond only with the requested JSON."

// fdRelations is the closed label set a verdict may use per translation.
var fdRelations = map[string]bool{
	"causation":  true,
	"letting":    true,
	"blocking":   true,
	"overcoming": true,
	"none":       true,
}

// buildPrompt constructs the blind evaluation prompt. The three candidate
// translations arrive already shuffled under neutral labels; nothing in the
// prompt reveals which system produced which.
func buildPrompt(originalText, translationA, translationB, translationC string) string {
	var sb strings.Builder

	sb.WriteString("Evaluate three translations of the same English sentence, focusing EXCLUSIVELY on the verb phrase and its preservation of Force Dynamics relations.\n")
	sb.WriteString(fdFramework)
	sb.WriteString(`
EVALUATION CRITERIA:

1. Lexis (verb phrase only): word choice appropriateness, idiomaticity in the target language, register.
2. Syntax (verb phrase only): grammatical accuracy, structural correctness, word order.
3. Semantics (verb phrase only): meaning preservation and Force Dynamics relations
   (identify Agonist and Antagonist if present, identify the force relation type,
   assess preservation of the FD structure from the source).
`)
	sb.WriteString(fmt.Sprintf("\nOriginal sentence (English): %s\n\n", originalText))
	sb.WriteString(fmt.Sprintf("Translation A: %s\n", translationA))
	sb.WriteString(fmt.Sprintf("Translation B: %s\n", translationB))
	sb.WriteString(fmt.Sprintf("Translation C: %s\n", translationC))
	sb.WriteString(`
For each translation (A, B, C):
1. Describe the verb phrase in terms of lexis, syntax and semantics (including FD analysis)
2. Name the dominant force relation: one of causation, letting, blocking, overcoming, none
3. Provide a numerical score (0.0 to 1.0) for verb phrase quality

Output format (JSON only, no other text):
{
  "translation_A_description": "string",
  "translation_A_relation": "causation|letting|blocking|overcoming|none",
  "translation_A_score": float,
  "translation_B_description": "string",
  "translation_B_relation": "causation|letting|blocking|overcoming|none",
  "translation_B_score": float,
  "translation_C_description": "string",
  "translation_C_relation": "causation|letting|blocking|overcoming|none",
  "translation_C_score": float,
  "comparison": "string"
}
`)

	return sb.String()
}
