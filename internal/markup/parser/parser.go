// Package parser re-parses emitted wrapper markup into a tree.
//
// It understands exactly the two command families the emitter produces,
// \fill and \rule, and nothing else. The test suite uses it to assert
// balanced nesting, wrapper counts, and leaf text — naive substring checks
// pass on malformed output, a full parse does not. It is not part of the
// production export path.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Node is one element of the parsed tree: literal text, a fill wrapper, or
// a rule wrapper. Exactly one field is set.
type Node struct {
	// Text is unescaped literal content.
	Text string

	// Fill is a \fill wrapper.
	Fill *Fill

	// Rule is a \rule wrapper.
	Rule *Rule
}

// Fill is a parsed \fill{color}{body} command.
type Fill struct {
	Color string
	Body  []*Node
}

// Rule is a parsed \rule[flags]{color}{thickness}{offset}{body} command.
type Rule struct {
	Color     string
	Thickness int
	Offset    int
	JoinLeft  bool
	JoinRight bool
	Body      []*Node
}

// markupLexer tokenizes the wrapper grammar. Escape pairs lex before
// commands so "\{" never starts a command, and every character outside the
// reserved set is its own Char token.
var markupLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Escape", Pattern: `\\[\\{}]`},
	{Name: "Command", Pattern: `\\[a-z]+`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "Char", Pattern: `[^\\{}\[\]]`},
})

//nolint:govet // participle grammar tags are not standard struct tags
type rawTree struct {
	Nodes []*rawNode `parser:"@@*"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type rawNode struct {
	Command *rawCommand `parser:"@@"`
	Text    string      `parser:"| @(Char | Escape | LBracket | RBracket)+"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type rawCommand struct {
	Name   string      `parser:"@Command"`
	Flags  *string     `parser:"( LBracket @Char+ RBracket )?"`
	Groups []*rawGroup `parser:"@@+"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type rawGroup struct {
	Nodes []*rawNode `parser:"LBrace @@* RBrace"`
}

var treeParser = participle.MustBuild[rawTree](
	participle.Lexer(markupLexer),
)

var colorToken = regexp.MustCompile(`^#[0-9a-f]{6}$`)

// Parse parses emitted markup into a node tree. Any structural problem —
// unbalanced braces, an unknown command, wrong argument arity, a malformed
// color or dimension — is an error.
func Parse(s string) ([]*Node, error) {
	raw, err := treeParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("markup parse: %w", err)
	}
	return buildNodes(raw.Nodes)
}

func buildNodes(raws []*rawNode) ([]*Node, error) {
	var out []*Node
	for _, rn := range raws {
		n, err := buildNode(rn)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func buildNode(rn *rawNode) (*Node, error) {
	if rn.Command == nil {
		return &Node{Text: unescape(rn.Text)}, nil
	}
	switch rn.Command.Name {
	case `\fill`:
		return buildFill(rn.Command)
	case `\rule`:
		return buildRule(rn.Command)
	default:
		return nil, fmt.Errorf("unknown command %q", rn.Command.Name)
	}
}

func buildFill(cmd *rawCommand) (*Node, error) {
	if cmd.Flags != nil {
		return nil, fmt.Errorf(`\fill does not take flags`)
	}
	if len(cmd.Groups) != 2 {
		return nil, fmt.Errorf(`\fill wants 2 argument groups, got %d`, len(cmd.Groups))
	}
	color, err := groupColor(cmd.Groups[0])
	if err != nil {
		return nil, fmt.Errorf(`\fill: %w`, err)
	}
	body, err := buildNodes(cmd.Groups[1].Nodes)
	if err != nil {
		return nil, err
	}
	return &Node{Fill: &Fill{Color: color, Body: body}}, nil
}

func buildRule(cmd *rawCommand) (*Node, error) {
	if len(cmd.Groups) != 4 {
		return nil, fmt.Errorf(`\rule wants 4 argument groups, got %d`, len(cmd.Groups))
	}
	color, err := groupColor(cmd.Groups[0])
	if err != nil {
		return nil, fmt.Errorf(`\rule: %w`, err)
	}
	thickness, err := groupInt(cmd.Groups[1])
	if err != nil {
		return nil, fmt.Errorf(`\rule thickness: %w`, err)
	}
	offset, err := groupInt(cmd.Groups[2])
	if err != nil {
		return nil, fmt.Errorf(`\rule offset: %w`, err)
	}
	r := &Rule{Color: color, Thickness: thickness, Offset: offset}
	if cmd.Flags != nil {
		for _, f := range strings.Split(*cmd.Flags, ",") {
			switch f {
			case "joinleft":
				r.JoinLeft = true
			case "joinright":
				r.JoinRight = true
			default:
				return nil, fmt.Errorf(`\rule: unknown flag %q`, f)
			}
		}
	}
	r.Body, err = buildNodes(cmd.Groups[3].Nodes)
	if err != nil {
		return nil, err
	}
	return &Node{Rule: r}, nil
}

// groupText extracts a group that must contain plain text only.
func groupText(g *rawGroup) (string, error) {
	if len(g.Nodes) != 1 || g.Nodes[0].Command != nil {
		return "", fmt.Errorf("argument group is not plain text")
	}
	return g.Nodes[0].Text, nil
}

func groupColor(g *rawGroup) (string, error) {
	text, err := groupText(g)
	if err != nil {
		return "", err
	}
	if !colorToken.MatchString(text) {
		return "", fmt.Errorf("bad color token %q", text)
	}
	return text, nil
}

func groupInt(g *rawGroup) (int, error) {
	text, err := groupText(g)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("bad dimension %q", text)
	}
	return v, nil
}

// unescape resolves escape pairs inside literal text.
func unescape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '\\', '{', '}':
				sb.WriteByte(s[i+1])
				i++
				continue
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
