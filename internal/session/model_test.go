package session

import (
	"encoding/json"
	"testing"
)

func TestAnalysisResultMixedItems(t *testing.T) {
	raw := `{
		"intent": "add retries",
		"decisions": [
			{"decision": "use exponential backoff", "reasoning": "handles bursts", "type": "choice"},
			"just a string decision"
		],
		"rejected": ["fixed delay"],
		"assumptions": [{"assumption": "API is idempotent", "provenance": "inferred"}],
		"deferred": [42]
	}`

	var res AnalysisResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if res.Intent != "add retries" {
		t.Fatalf("intent = %q", res.Intent)
	}

	if len(res.Decisions) != 2 {
		t.Fatalf("decisions = %d", len(res.Decisions))
	}
	if res.Decisions[0].Decision != "use exponential backoff" || res.Decisions[0].Plain != "" {
		t.Fatalf("object decision = %+v", res.Decisions[0])
	}
	if res.Decisions[1].Plain != "just a string decision" || res.Decisions[1].Decision != "" {
		t.Fatalf("string decision = %+v", res.Decisions[1])
	}

	if res.Rejected[0].Plain != "fixed delay" {
		t.Fatalf("rejected = %+v", res.Rejected[0])
	}
	if res.Assumptions[0].Assumption != "API is idempotent" {
		t.Fatalf("assumption = %+v", res.Assumptions[0])
	}
	// a non-string scalar keeps its raw representation
	if res.Deferred[0].Plain != "42" {
		t.Fatalf("deferred = %+v", res.Deferred[0])
	}
}

func TestSummarizeChanges(t *testing.T) {
	data := &SessionData{
		ProjectPath: "/home/u/proj",
		FileChanges: []FileChange{
			{FilePath: "/home/u/proj/client.py", ChangeType: "create"},
			{FilePath: "/home/u/proj/client.py", ChangeType: "edit"},
			{FilePath: "/home/u/proj/sub/util.py", ChangeType: "edit"},
			{FilePath: "/elsewhere/notes.md", ChangeType: "edit"},
			{FilePath: "/home/u/proj/client.py", ChangeType: "edit"},
		},
	}

	got := SummarizeChanges(data)
	if len(got) != 3 {
		t.Fatalf("summaries = %d, want 3", len(got))
	}

	if got[0].Path != "client.py" || !got[0].Created || got[0].Edits != 2 {
		t.Fatalf("client.py summary = %+v", got[0])
	}
	if got[1].Path != "sub/util.py" || got[1].Edits != 1 || got[1].Created {
		t.Fatalf("util.py summary = %+v", got[1])
	}
	// paths outside the project stay absolute
	if got[2].Path != "/elsewhere/notes.md" {
		t.Fatalf("outside path = %q", got[2].Path)
	}
}

func TestRelativePath(t *testing.T) {
	if got := RelativePath("/p/a/b.go", "/p"); got != "a/b.go" {
		t.Fatalf("got %q", got)
	}
	if got := RelativePath("/q/a.go", "/p"); got != "/q/a.go" {
		t.Fatalf("got %q", got)
	}
	if got := RelativePath("/q/a.go", ""); got != "/q/a.go" {
		t.Fatalf("got %q", got)
	}
}
