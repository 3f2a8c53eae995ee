package repl

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/minilisp/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "env", "reset", "clear", "quit"}

// commandPrefix introduces a control command typed in eval mode.
const commandPrefix = ":"

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: whitespace and parentheses. Hyphens are part of identifiers
// (e.g., print-num).
func isWordBoundary(r rune) bool {
	return r == '(' || r == ')' || unicode.IsSpace(r)
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// after a parenthesis, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// evalCandidates returns the names completing a word in eval mode: control
// commands for a word beginning with ":", otherwise the keywords followed by
// the names bound in env.
func evalCandidates(env *lang.Env, word string) []string {
	if strings.HasPrefix(word, commandPrefix) {
		names := make([]string, len(ctrlCommands))
		for i, c := range ctrlCommands {
			names[i] = commandPrefix + c
		}

		return names
	}

	names := lang.Keywords()
	if env != nil {
		names = append(names, env.Names()...)
	}

	return names
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. An empty word has no matches, so the hint line stays visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)
	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		candidates = evalCandidates(m.interp.Env(), word)
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style. Names bound to functions show their arity.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	env *lang.Env,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected, arity(env, match.Str))
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		// Check if adding this candidate would exceed width.
		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. A non-negative arity is shown as a "/N" suffix that is not
// part of the completion.
func renderCandidate(match fuzzy.Match, selected bool, arity int) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	if arity >= 0 {
		b.WriteString(hintStyle.Render("/" + strconv.Itoa(arity)))
	}

	return b.String()
}

// arity returns the parameter count of the function bound to name, or -1
// if name is not bound to a function.
func arity(env *lang.Env, name string) int {
	if env == nil {
		return -1
	}

	v, ok := env.Lookup(name)
	if !ok {
		return -1
	}

	fn, ok := v.(*lang.FunctionLiteral)
	if !ok {
		return -1
	}

	return len(fn.Params)
}

// previewWidth is the widest value preview listed by the env command.
const previewWidth = 40

// formatPreview generates a short preview of a bound value.
func formatPreview(v lang.Value) string {
	if v == nil {
		return "<nil>"
	}

	src := v.String()
	if len(src) > previewWidth {
		return src[:previewWidth-3] + "..."
	}

	return src
}
