package session

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

type record struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	Cwd       string          `json:"cwd"`
	GitBranch string          `json:"gitBranch"`
	Message   json.RawMessage `json:"message"`
}

type messageBody struct {
	Content json.RawMessage `json:"content"`
}

type contentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// ParseFile parses a session JSONL file. The session ID is the file stem.
func ParseFile(path string) (*SessionData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sessionID := strings.TrimSuffix(filepath.Base(path), ".jsonl")
	return Parse(sessionID, f)
}

// Parse reads JSONL records and builds the session model. Lines that fail to
// decode are skipped; shape mismatches inside a record degrade to defaults.
func Parse(sessionID string, r io.Reader) (*SessionData, error) {
	data := &SessionData{SessionID: sessionID}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}

		processRecord(&rec, data)
	}

	return data, scanner.Err()
}

func processRecord(rec *record, data *SessionData) {
	data.ProjectPath = firstWins(data.ProjectPath, rec.Cwd)
	data.GitBranch = lastWins(data.GitBranch, rec.GitBranch)

	if rec.Timestamp != "" {
		if data.StartTime == "" {
			data.StartTime = rec.Timestamp
		}
		data.EndTime = rec.Timestamp
	}

	switch rec.Type {
	case "user":
		processUserMessage(rec, data)
	case "assistant":
		processAssistantMessage(rec, data)
	}
}

// firstWins keeps the current value once set. Project path comes from the
// first record that carries a cwd.
func firstWins(current, incoming string) string {
	if current != "" {
		return current
	}
	return incoming
}

// lastWins takes every non-empty incoming value. Git branch reflects the most
// recent record that carries one.
func lastWins(current, incoming string) string {
	if incoming != "" {
		return incoming
	}
	return current
}

func processUserMessage(rec *record, data *SessionData) {
	var msg messageBody
	if rec.Message == nil || json.Unmarshal(rec.Message, &msg) != nil {
		return
	}

	text := extractText(msg.Content)
	if len(text) <= 5 {
		return
	}

	data.UserPrompts = append(data.UserPrompts, Prompt{Text: text, Timestamp: rec.Timestamp})
	data.Conversation = append(data.Conversation, ConversationTurn{
		Role:      "user",
		Text:      text,
		Timestamp: rec.Timestamp,
	})
}

func processAssistantMessage(rec *record, data *SessionData) {
	var msg messageBody
	if rec.Message == nil || json.Unmarshal(rec.Message, &msg) != nil {
		return
	}

	var blocks []contentBlock
	if json.Unmarshal(msg.Content, &blocks) != nil {
		return
	}

	var textParts []string
	var turnCalls []ToolCall

	for _, b := range blocks {
		switch b.Type {
		case "text":
			if t := strings.TrimSpace(b.Text); t != "" {
				textParts = append(textParts, t)
			}
		case "tool_use":
			turnCalls = append(turnCalls, processToolUse(b, rec.Timestamp, data))
		}
	}

	text := strings.Join(textParts, "\n")
	if text == "" && len(turnCalls) == 0 {
		return
	}

	turn := ConversationTurn{
		Role:      "assistant",
		Text:      text,
		Timestamp: rec.Timestamp,
		ToolCalls: turnCalls,
	}
	data.AssistantResponses = append(data.AssistantResponses, turn)
	data.Conversation = append(data.Conversation, turn)
}

// processToolUse converts a tool_use block into a ToolCall, appends it to the
// session's global list, and synthesizes a FileChange for file-edit tools.
func processToolUse(b contentBlock, timestamp string, data *SessionData) ToolCall {
	tc := ToolCall{
		Name:      b.Name,
		Input:     map[string]any{},
		InputKeys: objectKeys(b.Input),
		Timestamp: timestamp,
	}
	if b.Input != nil {
		var in map[string]any
		if json.Unmarshal(b.Input, &in) == nil {
			tc.Input = in
		}
	}

	data.ToolCalls = append(data.ToolCalls, tc)

	switch tc.Name {
	case "Edit":
		data.FileChanges = append(data.FileChanges, FileChange{
			FilePath:   tc.InputString("file_path"),
			ChangeType: "edit",
			OldContent: tc.InputString("old_string"),
			NewContent: tc.InputString("new_string"),
		})
	case "Write":
		data.FileChanges = append(data.FileChanges, FileChange{
			FilePath:   tc.InputString("file_path"),
			ChangeType: "create",
			NewContent: tc.InputString("content"),
		})
	}

	return tc
}

// extractText flattens message content into one string: either the content is
// a bare string, or a block list whose "text" blocks are joined by newlines.
func extractText(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}

	var parts []string
	for _, b := range blocks {
		if b.Type != "text" {
			continue
		}
		if t := strings.TrimSpace(b.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// objectKeys returns the keys of a JSON object in document order.
func objectKeys(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	t, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := t.(json.Delim); !ok || d != '{' {
		return nil
	}

	var keys []string
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return keys
		}
		k, ok := kt.(string)
		if !ok {
			return keys
		}
		keys = append(keys, k)
		if err := skipValue(dec); err != nil {
			return keys
		}
	}
	return keys
}

func skipValue(dec *json.Decoder) error {
	t, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := t.(json.Delim); ok && (d == '{' || d == '[') {
		depth := 1
		for depth > 0 {
			t, err := dec.Token()
			if err != nil {
				return err
			}
			if d, ok := t.(json.Delim); ok {
				switch d {
				case '{', '[':
					depth++
				case '}', ']':
					depth--
				}
			}
		}
	}
	return nil
}
