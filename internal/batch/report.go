package batch

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// issue is one category of the issue log, in display order.
type issue struct {
	outcome Outcome
	format  func(n int, source, goal, kind string) string
}

var issues = []issue{
	{Encrypted, func(n int, source, _, _ string) string {
		return fmt.Sprintf("%d book%s had encrypted %s format%[2]s.", n, plural(n), source)
	}},
	{NotApplicable, func(n int, source, _, kind string) string {
		return fmt.Sprintf("%d book%s %s format%[2]s contained no %[4]s.", n, plural(n), source, kind)
	}},
	{Exists, func(n int, _, goal, _ string) string {
		return fmt.Sprintf("%d book%s already had %s format%[2]s, will not overwrite.", n, plural(n), goal)
	}},
	{NoFormat, func(n int, source, _, _ string) string {
		return fmt.Sprintf("%d book%s had no %s file on disk.", n, plural(n), source)
	}},
	{Unknown, func(n int, source, _, _ string) string {
		return fmt.Sprintf("%d book%s had unknown errors processing the %s format%[2]s.", n, plural(n), source)
	}},
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func (b *Batch) names() (source, goal, kind string) {
	if b.Target == nil {
		return "Kindle", "classification", "Kindle book"
	}
	return b.Target.SourceFormat(), strings.ToUpper(strings.TrimPrefix(b.Target.Extension(), ".")), b.Target.KindName()
}

// Summary is the one line shown after a batch.
func (b *Batch) Summary() string {
	_, goal, _ := b.names()
	ok := b.Count(Success)
	return fmt.Sprintf("%d %s format%s produced. %d not produced.", ok, goal, plural(ok), len(b.Results)-ok)
}

// RenderText writes the issue log as plain text.
func (b *Batch) RenderText(w io.Writer) error {
	source, goal, kind := b.names()
	var sb strings.Builder

	ok := b.Filter(Success)
	fmt.Fprintf(&sb, "Successes - %d\n", len(ok))
	for _, r := range ok {
		fmt.Fprintf(&sb, "  %s", r.DisplayName())
		if r.Output != "" {
			fmt.Fprintf(&sb, " -> %s", r.Output)
		}
		sb.WriteByte('\n')
	}

	fmt.Fprintf(&sb, "\nIssues - %d\n", len(b.Results)-len(ok))
	for _, is := range issues {
		rs := b.Filter(is.outcome)
		if len(rs) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s\n", is.format(len(rs), source, goal, kind))
		for _, r := range rs {
			fmt.Fprintf(&sb, "  %s", r.DisplayName())
			if r.Message != "" {
				fmt.Fprintf(&sb, ": %s", r.Message)
			}
			sb.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderHTML writes the issue log as an HTML fragment.
func (b *Batch) RenderHTML(w io.Writer) error {
	source, goal, kind := b.names()
	root := element(atom.Div)

	ok := b.Filter(Success)
	root.AppendChild(element(atom.H2, text(fmt.Sprintf("Successes - %d", len(ok)))))
	root.AppendChild(element(atom.H4, text(fmt.Sprintf("%d %s format%s successfully produced.", len(ok), goal, plural(len(ok))))))
	if len(ok) > 0 {
		root.AppendChild(list(ok))
	}

	root.AppendChild(element(atom.H2, text(fmt.Sprintf("Issues - %d", len(b.Results)-len(ok)))))
	for _, is := range issues {
		rs := b.Filter(is.outcome)
		root.AppendChild(element(atom.H4, text(is.format(len(rs), source, goal, kind))))
		if len(rs) > 0 {
			root.AppendChild(list(rs))
		}
	}
	if b.Target != nil {
		root.AppendChild(element(atom.H3, text(fmt.Sprintf("Books that had no %s format were ignored.", source))))
	}
	return html.Render(w, root)
}

// WriteJSON writes the batch as indented JSON.
func (b *Batch) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

func element(a atom.Atom, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func list(rs []Result) *html.Node {
	ul := element(atom.Ul)
	for _, r := range rs {
		label := r.DisplayName()
		if r.Message != "" && r.Outcome != Success {
			label += ": " + r.Message
		}
		ul.AppendChild(element(atom.Li, text(label)))
	}
	return ul
}
