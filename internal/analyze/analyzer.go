package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/trajectory-cli/trajectory/internal/session"
)

const decisionPrompt = `Analyze this coding session and extract CODE DECISIONS for a PR review.

%s

Transcript (filtered to code-relevant discussion):
%s

Respond in this exact JSON format:
{
  "intent": "What feature/fix/change was being implemented (1-2 sentences, focus on the WHAT and WHY)",
  "decisions": [
    {
      "decision": "What was decided",
      "reasoning": "Why this choice was made",
      "provenance": "explicit|chosen|inferred",
      "context": "Readable summary of how this decision came about"
    }
  ],
  "rejected": [
    {
      "alternative": "What was considered but not chosen",
      "reason": "Why it was rejected",
      "provenance": "explicit|chosen",
      "context": "Summary of the discussion"
    }
  ],
  "assumptions": [
    {
      "assumption": "What was taken for granted",
      "provenance": "explicit|inferred",
      "context": "How this assumption surfaced"
    }
  ],
  "deferred": [
    {
      "item": "What was explicitly pushed to later",
      "provenance": "explicit",
      "context": "Summary of why it was deferred"
    }
  ]
}

CONTEXT FIELD - Make it readable for someone reviewing later:
- For [chosen]: "Selected from options: X / Y / Z" - list what the alternatives were
- For [explicit]: "User requested X because Y" - capture the why
- For [inferred]: "Based on pattern in codebase" or "Implied by file structure"
- NOT verbatim quotes. Summarize so it's understandable without the transcript.

RULES:
- "decisions": Only actual choices made. Must have evidence in conversation or code.
- "rejected": Only alternatives that were ACTUALLY discussed and not chosen.
- "assumptions": Things taken for granted. Can be inferred from context.
- "deferred": Only things EXPLICITLY marked as "later", "out of scope", "not now".

PROVENANCE:
- "explicit": User directly stated this
- "chosen": User selected from options assistant presented
- "inferred": Deduced from code/context (NOT allowed for rejected/deferred)

NO INTERPRETATION. Only record what happened. Do not add risks, suggestions, or code review comments.

Aim for 3-6 decisions, 0-2 rejected (only if actually discussed), 1-3 assumptions, 0-2 deferred (only if explicit).`

const flowPrompt = `Analyze this coding session to create a DECISION FLOW visualization.

%s

Transcript:
%s

Extract the decision sequence as a FLOW. Respond in this exact JSON format:
{
  "intent": "What user wanted to accomplish (max 35 chars)",
  "decisions": [
    {
      "decision": "Short statement (max 35 chars)",
      "type": "directive|choice|implement",
      "context": "For choice: list options. For directive: why (optional)"
    }
  ],
  "rejected": [
    {
      "alternative": "What was not chosen (max 35 chars)"
    }
  ],
  "deferred": [
    {
      "item": "What was pushed to later (max 30 chars)"
    }
  ]
}

DECISION TYPES:
- "directive": User explicitly requested this action
- "choice": User selected from options presented
- "implement": Action taken based on context/inference

RULES:
- Keep text SHORT (max 35 chars) - these render in narrow ASCII boxes
- Sequence order: how the session actually progressed
- Focus on the chain: Intent -> Decisions -> Output
- Skip git/process decisions, focus on code decisions
- Aim for 2-4 decisions, 0-2 rejected, 0-1 deferred
- NO assumptions section needed`

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// Session extracts decisions from the session for the decision log.
// Any failure returns a nil result with an error; callers log it and render
// without analysis.
func Session(ctx context.Context, c *Client, model string, data *session.SessionData) (*session.AnalysisResult, error) {
	return run(ctx, c, model, data, decisionPrompt)
}

// ForFlow extracts a decision sequence sized for the flow diagram's boxes.
func ForFlow(ctx context.Context, c *Client, model string, data *session.SessionData) (*session.AnalysisResult, error) {
	return run(ctx, c, model, data, flowPrompt)
}

func run(ctx context.Context, c *Client, model string, data *session.SessionData, template string) (*session.AnalysisResult, error) {
	transcript := session.BuildTranscript(data, session.DefaultTranscriptLimit, true)
	prompt := fmt.Sprintf(template, FilesSummary(data), transcript)

	text, err := c.Complete(ctx, model, prompt)
	if err != nil {
		return nil, err
	}

	return ParseResponse(text)
}

// ParseResponse pulls the JSON object out of a model response and decodes it.
func ParseResponse(text string) (*session.AnalysisResult, error) {
	match := jsonObjectRe.FindString(text)
	if match == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var result session.AnalysisResult
	if err := json.Unmarshal([]byte(match), &result); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &result, nil
}

// FilesSummary builds the files-changed block included in analysis prompts.
func FilesSummary(data *session.SessionData) string {
	changes := session.SummarizeChanges(data)
	if len(changes) == 0 {
		return ""
	}

	lines := []string{"Files changed:"}
	for _, c := range changes {
		if c.Created {
			lines = append(lines, fmt.Sprintf("- %s (created)", c.Path))
		} else {
			lines = append(lines, fmt.Sprintf("- %s (%d edits)", c.Path, c.Edits))
		}
	}
	return strings.Join(lines, "\n")
}
