package publish

import "testing"

func TestRepoName(t *testing.T) {
	cases := []struct {
		name string
		task string
		want string
	}{
		{"simple", "markdown-to-html-abc12", "llm-app-markdown-to-html-abc12"},
		{"uppercase lowered", "Markdown-To-HTML", "llm-app-markdown-to-html"},
		{"spaces collapse to dash", "my cool  app", "llm-app-my-cool-app"},
		{"diacritics stripped", "café-crème", "llm-app-cafe-creme"},
		{"punctuation collapses", "task!!weird##name", "llm-app-task-weird-name"},
		{"dots and underscores kept", "v1.2_final", "llm-app-v1.2_final"},
		{"leading and trailing junk trimmed", "  --task--  ", "llm-app-task"},
		{"empty task", "", "llm-app-"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := RepoName("llm-app-", c.task); got != c.want {
				t.Fatalf("RepoName(%q) = %q, want %q", c.task, got, c.want)
			}
		})
	}
}

// The same identifier must always map to the same repository.
func TestRepoNameDeterministic(t *testing.T) {
	a := RepoName("llm-app-", "Sömé Task 42")
	b := RepoName("llm-app-", "Sömé Task 42")
	if a != b {
		t.Fatalf("non-deterministic: %q vs %q", a, b)
	}
}
