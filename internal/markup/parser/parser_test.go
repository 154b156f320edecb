package parser

import (
	"strings"
	"testing"
)

func TestParsePlainText(t *testing.T) {
	nodes, err := Parse("just some text, with [brackets] and #hashes 42")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	got := PlainText(nodes)
	if got != "just some text, with [brackets] and #hashes 42" {
		t.Errorf("PlainText = %q", got)
	}
	if CountFills(nodes) != 0 || CountRules(nodes) != 0 {
		t.Error("plain text should contain no wrappers")
	}
}

func TestParseFill(t *testing.T) {
	nodes, err := Parse(`\fill{#ffeecc}{hello}`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Fill == nil {
		t.Fatalf("expected one fill node, got %+v", nodes)
	}
	f := nodes[0].Fill
	if f.Color != "#ffeecc" {
		t.Errorf("Color = %q", f.Color)
	}
	if PlainText(f.Body) != "hello" {
		t.Errorf("body text = %q", PlainText(f.Body))
	}
}

func TestParseRule(t *testing.T) {
	nodes, err := Parse(`\rule[joinleft,joinright]{#332211}{2}{4}{mid}`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Rule == nil {
		t.Fatalf("expected one rule node, got %+v", nodes)
	}
	r := nodes[0].Rule
	if r.Color != "#332211" || r.Thickness != 2 || r.Offset != 4 {
		t.Errorf("rule = %+v", r)
	}
	if !r.JoinLeft || !r.JoinRight {
		t.Errorf("join flags = %v/%v, want true/true", r.JoinLeft, r.JoinRight)
	}
}

func TestParseNesting(t *testing.T) {
	nodes, err := Parse(`\fill{#ffeecc}{\rule{#112233}{1}{2}{deep}}tail`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if MaxDepth(nodes) != 2 {
		t.Errorf("MaxDepth = %d, want 2", MaxDepth(nodes))
	}
	if PlainText(nodes) != "deeptail" {
		t.Errorf("PlainText = %q", PlainText(nodes))
	}
}

func TestParseEscapes(t *testing.T) {
	nodes, err := Parse(`a\{b\}c\\d`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got := PlainText(nodes); got != `a{b}c\d` {
		t.Errorf("PlainText = %q, want %q", got, `a{b}c\d`)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unbalanced open", `\fill{#ffeecc}{oops`},
		{"stray close", `text}`},
		{"stray open", `text{`},
		{"unknown command", `\sparkle{#ffeecc}{x}`},
		{"fill arity", `\fill{#ffeecc}{a}{b}`},
		{"rule arity", `\rule{#ffeecc}{1}{2}`},
		{"bad color", `\fill{red}{x}`},
		{"uppercase color", `\fill{#FFEECC}{x}`},
		{"bad thickness", `\rule{#ffeecc}{fat}{2}{x}`},
		{"bad flag", `\rule[sideways]{#ffeecc}{1}{2}{x}`},
		{"flags on fill", `\fill[joinleft]{#ffeecc}{x}`},
		{"lone backslash", `tr\ailing`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.input); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.input)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	nodes, err := Parse("")
	if err != nil {
		t.Fatalf("Parse(\"\") error: %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("got %d nodes, want 0", len(nodes))
	}
}

func TestParseMultiline(t *testing.T) {
	input := "para one\n\n" + `\fill{#ffeecc}{para two}`
	nodes, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !strings.Contains(PlainText(nodes), "\n\n") {
		t.Error("block separator lost in parse")
	}
}
