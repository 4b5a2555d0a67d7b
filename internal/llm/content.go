package llm

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// StripFence unwraps a response that the model wrapped in a markdown code
// fence despite being asked for raw file content. Anything else is returned
// unchanged.
func StripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	idx := strings.IndexByte(s, '\n')
	if idx < 0 {
		return s
	}
	body := strings.TrimRight(s[idx+1:], " \t\n")
	if !strings.HasSuffix(body, "```") {
		return s
	}
	return strings.TrimSpace(strings.TrimSuffix(body, "```"))
}

// CheckHTML runs a lenient parse over a generated document and returns a
// non-empty reason when it does not look like a markup file. The parse never
// rejects input outright, so this is a heuristic for logging only.
func CheckHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return "document is empty"
	}
	if !strings.Contains(s, "<") {
		return "document contains no markup"
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return "document failed to parse: " + err.Error()
	}
	// html.Parse synthesizes html/head/body wrappers; count anything beyond them.
	elements := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html", "head", "body":
			default:
				elements++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if elements == 0 {
		return "document has no elements beyond the implicit skeleton"
	}
	return ""
}

// ReadmeTitle extracts the first heading of a markdown document, preferring a
// level-1 heading. Returns "" when the document has no headings.
func ReadmeTitle(src string) string {
	source := []byte(src)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var first, topLevel string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		title := headingText(h, source)
		if title == "" {
			return ast.WalkSkipChildren, nil
		}
		if first == "" {
			first = title
		}
		if h.Level == 1 && topLevel == "" {
			topLevel = title
		}
		return ast.WalkSkipChildren, nil
	})

	if topLevel != "" {
		return topLevel
	}
	return first
}

func headingText(h *ast.Heading, source []byte) string {
	var sb strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
	}
	return strings.TrimSpace(sb.String())
}
