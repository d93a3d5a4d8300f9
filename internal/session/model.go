package session

import (
	"encoding/json"
	"strings"
)

// FileChange records one file mutation observed during a session.
type FileChange struct {
	FilePath   string
	ChangeType string // "edit" or "create"
	OldContent string
	NewContent string
}

// ToolCall is a single tool invocation from an assistant message.
// InputKeys preserves the JSON document order of Input, which map iteration
// would lose; transcript summaries show the first input key.
type ToolCall struct {
	Name      string
	Input     map[string]any
	InputKeys []string
	Timestamp string
}

// PrimaryInput returns the first input key of the call, or "".
func (tc ToolCall) PrimaryInput() string {
	if len(tc.InputKeys) == 0 {
		return ""
	}
	return tc.InputKeys[0]
}

// InputString returns the named input field as a string, or "".
func (tc ToolCall) InputString(key string) string {
	if s, ok := tc.Input[key].(string); ok {
		return s
	}
	return ""
}

// ConversationTurn is one logical message in the session.
type ConversationTurn struct {
	Role      string // "user" or "assistant"
	Text      string
	Timestamp string
	ToolCalls []ToolCall
}

// Prompt is one user prompt with its raw timestamp.
type Prompt struct {
	Text      string
	Timestamp string
}

// SessionData is the aggregate parsed from one session log. Timestamps are
// carried as the raw strings from the log; ordering follows record order.
type SessionData struct {
	SessionID          string
	ProjectPath        string
	GitBranch          string
	UserPrompts        []Prompt
	AssistantResponses []ConversationTurn
	Conversation       []ConversationTurn
	ToolCalls          []ToolCall
	FileChanges        []FileChange
	StartTime          string
	EndTime            string
}

// AnalysisResult is the structured output of the external analysis step.
// A nil *AnalysisResult means analysis was not run or failed; renderers must
// handle that.
type AnalysisResult struct {
	Intent      string       `json:"intent"`
	Decisions   []Decision   `json:"decisions"`
	Rejected    []Rejected   `json:"rejected"`
	Assumptions []Assumption `json:"assumptions"`
	Deferred    []Deferred   `json:"deferred"`
}

// Analysis items arrive either as rich objects or as bare strings. Each item
// type decodes both forms: a string lands in Plain and the named fields stay
// empty, an object fills the named fields and Plain stays "".

// Decision is one choice made during the session.
type Decision struct {
	Decision   string `json:"decision"`
	Reasoning  string `json:"reasoning"`
	Type       string `json:"type"`
	Provenance string `json:"provenance"`
	Context    string `json:"context"`
	Plain      string `json:"-"`
}

func (d *Decision) UnmarshalJSON(b []byte) error {
	type detailed Decision
	var v detailed
	if err := json.Unmarshal(b, &v); err == nil {
		*d = Decision(v)
		return nil
	}
	d.Plain = plainText(b)
	return nil
}

// Rejected is an alternative that was discussed but not chosen.
type Rejected struct {
	Alternative string `json:"alternative"`
	Reason      string `json:"reason"`
	Provenance  string `json:"provenance"`
	Context     string `json:"context"`
	Plain       string `json:"-"`
}

func (r *Rejected) UnmarshalJSON(b []byte) error {
	type detailed Rejected
	var v detailed
	if err := json.Unmarshal(b, &v); err == nil {
		*r = Rejected(v)
		return nil
	}
	r.Plain = plainText(b)
	return nil
}

// Assumption is something taken for granted during the session.
type Assumption struct {
	Assumption string `json:"assumption"`
	Provenance string `json:"provenance"`
	Context    string `json:"context"`
	Plain      string `json:"-"`
}

func (a *Assumption) UnmarshalJSON(b []byte) error {
	type detailed Assumption
	var v detailed
	if err := json.Unmarshal(b, &v); err == nil {
		*a = Assumption(v)
		return nil
	}
	a.Plain = plainText(b)
	return nil
}

// Deferred is something explicitly pushed to later.
type Deferred struct {
	Item       string `json:"item"`
	Provenance string `json:"provenance"`
	Context    string `json:"context"`
	Plain      string `json:"-"`
}

func (d *Deferred) UnmarshalJSON(b []byte) error {
	type detailed Deferred
	var v detailed
	if err := json.Unmarshal(b, &v); err == nil {
		*d = Deferred(v)
		return nil
	}
	d.Plain = plainText(b)
	return nil
}

// plainText recovers the text form of a non-object item: a JSON string
// decodes to its value, anything else keeps its raw representation.
func plainText(b []byte) string {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(b))
}
