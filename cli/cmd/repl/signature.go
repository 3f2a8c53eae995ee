package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/minilisp/lang"
)

// formSignatures lists the operands of each built-in form. A parameter
// beginning with "..." accepts any number of further operands.
var formSignatures = map[string][]string{
	"define":     {"name", "value"},
	"fun":        {"(params)", "body"},
	"if":         {"test", "then", "else"},
	"print-num":  {"expr"},
	"print-bool": {"expr"},
	"not":        {"expr"},
	"+":          {"a", "b", "...more"},
	"*":          {"a", "b", "...more"},
	"=":          {"a", "b", "...more"},
	"and":        {"a", "b", "...more"},
	"or":         {"a", "b", "...more"},
	"-":          {"a", "b"},
	"/":          {"a", "b"},
	"mod":        {"a", "b"},
	">":          {"a", "b"},
	"<":          {"a", "b"},
}

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// formCall describes the innermost form enclosing the cursor.
type formCall struct {
	name     string // head of the form
	argIndex int    // index of the operand at the cursor (0-based)
	inCall   bool   // true if the cursor is past the head, inside the form
}

// detectFormCall analyzes the input to determine whether the cursor is
// inside the operands of a form whose head is a name, and which operand it
// is on.
func detectFormCall(input string, cursor int) formCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Scan backward from cursor to the opening paren of the innermost
	// unclosed form.
	depth := 0
	open := -1

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')':
			depth++

		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return formCall{}
	}

	// Read the head word after the paren.
	headStart := open + 1
	for headStart < cursor && (input[headStart] == ' ' || input[headStart] == '\t') {
		headStart++
	}

	headEnd := headStart

	for headEnd < len(input) {
		r, size := utf8.DecodeRuneInString(input[headEnd:])
		if isWordBoundary(r) {
			break
		}

		headEnd += size
	}

	// No name in head position, or the cursor is still on the head.
	if headEnd == headStart || cursor <= headEnd {
		return formCall{}
	}

	// Count the operands between the head and the cursor.
	var (
		items  int
		inItem bool
	)

	depth = 0

	for _, r := range input[headEnd:cursor] {
		switch {
		case r == '(':
			if depth == 0 {
				items++
			}

			depth++
			inItem = true

		case r == ')':
			depth--

		case isWordBoundary(r):
			if depth == 0 {
				inItem = false
			}

		default:
			if depth == 0 && !inItem {
				items++
				inItem = true
			}
		}
	}

	argIndex := items
	if inItem {
		argIndex--
	}

	return formCall{
		name:     input[headStart:headEnd],
		argIndex: argIndex,
		inCall:   true,
	}
}

// getSignature returns the operand names of the named form: a built-in form,
// or a function bound in env. It returns nil if name is neither.
func getSignature(env *lang.Env, name string) (params []string, ok bool) {
	if params, ok := formSignatures[name]; ok {
		return params, true
	}

	if env == nil {
		return nil, false
	}

	v, found := env.Lookup(name)
	if !found {
		return nil, false
	}

	fn, isFn := v.(*lang.FunctionLiteral)
	if !isFn {
		return nil, false
	}

	params = make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = lang.FormatNode(p)
	}

	return params, true
}

// renderSignatureHint renders the form signature with the current operand
// highlighted.
func renderSignatureHint(name string, params []string, currentArgIdx int) string {
	var b strings.Builder

	b.WriteString(signatureStyle.Render("("))
	b.WriteString(signatureNameStyle.Render(name))

	for i, param := range params {
		b.WriteString(signatureStyle.Render(" "))

		// A variadic parameter is current for every index at or past it.
		isVariadic := strings.HasPrefix(param, "...")

		if (isVariadic && currentArgIdx >= i) ||
			(!isVariadic && currentArgIdx == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
