package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/appforge/internal/errors"
	"git.home.luguber.info/inful/appforge/internal/logfields"
)

// Artifacts holds the two generated text files for a task. They are produced
// once and never mutated afterwards.
type Artifacts struct {
	HTML   string
	Readme string
}

// Completer is the completion seam the generator depends on. *Client satisfies
// it; tests inject a stub.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator produces the application and documentation artifacts for a task.
// Neither call is retried here; failures propagate to the orchestrator.
type Generator struct {
	completer Completer
}

// NewGenerator constructs a generator around a completion client.
func NewGenerator(completer Completer) *Generator {
	return &Generator{completer: completer}
}

const appPromptFormat = `You are an expert web developer. Create a single, complete index.html file.
Brief: %s
The final code must be functional and self-contained.
The final code must pass these checks: %s
Generate only the full HTML file content and nothing else.`

const readmePromptFormat = `You are a technical writer. Create a professional README.md for a project.
Project Brief: %s
The project was implemented with the following code:
` + "```html\n%s\n```" + `
Generate a complete README.md file with the following sections:
- A project title.
- A brief one-paragraph summary of what the application does.
- A "How It Works" section explaining the code's functionality.
- A "License" section mentioning it is MIT licensed.
Generate only the markdown content for the file.`

// Generate runs the two completion calls in sequence: application code first,
// then the README that documents it.
func (g *Generator) Generate(ctx context.Context, brief, checks string) (*Artifacts, error) {
	raw, err := g.completer.Complete(ctx, fmt.Sprintf(appPromptFormat, brief, checks))
	if err != nil {
		return nil, errors.GenerationFailed(err, "index.html")
	}
	html := StripFence(strings.TrimSpace(raw))
	if warn := CheckHTML(html); warn != "" {
		slog.Warn("Generated application code looks suspect", slog.String("reason", warn))
	}

	raw, err = g.completer.Complete(ctx, fmt.Sprintf(readmePromptFormat, brief, html))
	if err != nil {
		return nil, errors.GenerationFailed(err, "README.md")
	}
	readme := StripFence(strings.TrimSpace(raw))

	slog.Debug("Artifacts generated",
		slog.Int("html_bytes", len(html)),
		slog.Int("readme_bytes", len(readme)),
		logfields.Stage("generating"))

	return &Artifacts{HTML: html, Readme: readme}, nil
}
