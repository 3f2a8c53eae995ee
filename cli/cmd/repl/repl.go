package repl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/minilisp/lang"
	"github.com/ardnew/minilisp/log"
	"github.com/ardnew/minilisp/pkg"
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
	contPrompt = "… "
)

func helpMessage() string {
	return `
: Commands (type in command mode, or prefix with ':' in eval mode):

  help     Print this cruft
  env      List the current bindings
  reset    Discard every binding
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a statement or expression to run it; a form left open
    continues on the next line
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	contPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the echo line of an eval-mode input line.
func formatCommand(input string, continued bool) string {
	if continued {
		return contPromptStyle.Render(contPrompt) + inputStyle.Render(input)
	}

	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and input
// styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

type config struct {
	logger   log.Logger
	prelude  io.Reader
	echo     bool
	lang     []lang.Option
	programs []tea.ProgramOption
}

// Option configures a session.
type Option = pkg.Option[config]

// WithLogger sets the logger for session tracing and for the interpreter.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}

// WithPrelude sets a program executed before the first prompt.
func WithPrelude(r io.Reader) Option {
	return func(c config) config {
		c.prelude = r

		return c
	}
}

// WithEcho controls whether the value of each bare expression is shown.
func WithEcho(echo bool) Option {
	return func(c config) config {
		c.echo = echo

		return c
	}
}

// WithLang appends interpreter options.
func WithLang(opts ...lang.Option) Option {
	return func(c config) config {
		c.lang = append(c.lang, opts...)

		return c
	}
}

// WithProgramOptions appends options for the terminal program.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(c config) config {
		c.programs = append(c.programs, opts...)

		return c
	}
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	interp       *lang.Interpreter
	out          *bytes.Buffer // interpreter output not yet shown
	cfg          config
	history      *History
	historyIdx   int
	pending      []string      // lines of a form not yet closed
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts an interactive session. The prelude, if any, runs first; a
// prelude failure is returned before the session starts.
func Run(ctx context.Context, opts ...Option) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, err := newSession(ctx, opts...)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m,
		append([]tea.ProgramOption{tea.WithContext(ctx)}, m.cfg.programs...)...)
	_, err = p.Run()

	m.cfg.logger.TraceContext(ctx, "repl stop",
		slog.Int("history", m.history.Len()),
		slog.Int("bindings", m.interp.Env().Len()),
	)

	return err
}

// newSession builds the initial model and runs the prelude.
func newSession(ctx context.Context, opts ...Option) (model, error) {
	cfg := pkg.Make(opts...)
	cfg.lang = append(cfg.lang, lang.WithLogger(cfg.logger))

	cfg.logger.TraceContext(ctx, "repl start",
		slog.Bool("has_prelude", cfg.prelude != nil),
		slog.Bool("echo", cfg.echo),
	)

	out := new(bytes.Buffer)
	interp := lang.New(out, cfg.lang...)

	if cfg.prelude != nil {
		if err := interp.ExecReader(ctx, cfg.prelude); err != nil {
			return model{}, err
		}

		cfg.logger.TraceContext(ctx, "repl prelude loaded",
			slog.Int("bindings", interp.Env().Len()),
		)
	}

	return newModel(ctx, interp, out, NewHistory(0), cfg), nil
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	interp *lang.Interpreter,
	out *bytes.Buffer,
	history *History,
	cfg config,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		interp:     interp,
		out:        out,
		cfg:        cfg,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	// Output printed by the prelude.
	cmds := []tea.Cmd{textinput.Blink}
	for _, line := range m.flush() {
		cmds = append(cmds, tea.Println(line))
	}

	return tea.Sequence(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Input line.
	b.WriteString(m.input.View())
	b.WriteString("\n")

	// Completion / hint line.
	input := m.input.Value()

	// Check if we're viewing history
	viewingHistory := m.historyIdx < m.history.Len()

	call := detectFormCall(input, m.input.Position())

	switch {
	case viewingHistory:
		// Show history position indicator
		pos := m.historyIdx + 1 // 1-based for display
		total := m.history.Len()
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(pos)),
			total)
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		// Empty or whitespace-only input: show hint.
		var hint string

		switch {
		case len(m.pending) > 0:
			hint = "Continue the open form, or press Ctrl+C to discard it"
		case m.mode == modeEval:
			hint = "Type an expression or press Esc for commands"
		default:
			hint = "Type: " + strings.Join(ctrlCommands, ", ") +
				" (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		// Render horizontal candidate bar.
		b.WriteString(renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width, m.interp.Env(),
		))

	case call.inCall && m.mode == modeEval:
		// Show the form signature with the current operand highlighted.
		if params, ok := getSignature(m.interp.Env(), call.name); ok {
			b.WriteString(renderSignatureHint(call.name, params, call.argIndex))
		}
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.cfg.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.pending = nil
		m.input.Prompt = m.prompt()
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.handleTab()

	case tea.KeyShiftTab:
		return m.handleShiftTab()

	case tea.KeyUp:
		return m.historyPrev()

	case tea.KeyDown:
		return m.historyNext()

	case tea.KeyShiftUp:
		return m.historyPrevInMode()

	case tea.KeyShiftDown:
		return m.historyNextInMode()

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if len(m.pending) > 0 {
			return m, nil
		}

		return m.toggleMode()

	case tea.KeyRunes, tea.KeySpace:
		// Space is a "breaking" key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		// Reset history index when typing
		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	// Reset history index when typing
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

func (m model) handleTab() (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		// Cycle forward through candidates.
		m.suggIdx++
		if m.suggIdx >= len(m.matches) {
			m.suggIdx = 0
		}
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

func (m model) handleShiftTab() (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		// Cycle backward through candidates.
		m.suggIdx--
		if m.suggIdx < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = len(m.matches) - 1
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	// Update word boundaries for the replaced text.
	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
// autoConfirm should be false for deletions and cursor navigation so that
// the user can freely edit without unexpected completions.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	// Auto-confirm when the typed word already equals the sole candidate.
	candidate := m.matches[0].Str
	word := m.input.Value()[m.wordStart:m.wordEnd]

	if word == candidate {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// prompt returns the prompt for the current mode and pending input.
func (m model) prompt() string {
	switch {
	case len(m.pending) > 0:
		return contPromptStyle.Render(contPrompt)
	case m.mode == modeCtrl:
		return ctrlPromptStyle.Render(ctrlPrompt)
	default:
		return promptStyle.Render(evalPrompt)
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	line := m.input.Value()
	trimmed := strings.TrimSpace(line)

	if trimmed == "" && len(m.pending) == 0 {
		return m, nil
	}

	// Reset both mode inputs after submission
	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")
	m.matches = nil

	if m.mode == modeCtrl {
		m.history.WriteWithMode(trimmed, modeCtrl)
		m.historyIdx = m.history.Len()

		return m.executeCommand(trimmed, formatCtrlCommand(line))
	}

	if len(m.pending) == 0 {
		if command, ok := strings.CutPrefix(trimmed, commandPrefix); ok {
			m.history.WriteWithMode(trimmed, modeEval)
			m.historyIdx = m.history.Len()

			return m.executeCommand(command, formatCommand(line, false))
		}
	}

	echoCmd := tea.Println(formatCommand(line, len(m.pending) > 0))

	m.pending = append(m.pending, line)
	src := strings.Join(m.pending, "\n")

	prog, err := lang.Parse(m.ctxFunc(), src, m.cfg.lang...)
	if lang.Incomplete(err) {
		m.input.Prompt = m.prompt()

		return m, echoCmd
	}

	m.pending = nil
	m.input.Prompt = m.prompt()
	m.history.WriteWithMode(strings.Join(strings.Fields(src), " "), modeEval)
	m.historyIdx = m.history.Len()

	m.cfg.logger.TraceContext(
		m.ctxFunc(),
		"repl eval",
		slog.String("input", src),
	)

	if err != nil {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render(lang.Report(err))),
		)
	}

	cmds := []tea.Cmd{echoCmd}
	for _, out := range m.run(prog) {
		cmds = append(cmds, tea.Println(out))
	}

	return m, tea.Sequence(cmds...)
}

// run executes the statements of prog in order and returns the styled lines
// to show: printed output, the value of each bare expression when echo is
// enabled, and the error line of a failing statement, which ends the run.
func (m model) run(prog *lang.Program) []string {
	var lines []string

	ctx := m.ctxFunc()

	for _, stmt := range prog.All() {
		var (
			v   lang.Value
			err error
		)

		switch stmt.Kind() {
		case lang.NodeDefine, lang.NodePrint:
			err = m.interp.ExecStatement(ctx, stmt)

		default:
			v, err = m.interp.Evaluate(ctx, stmt)
		}

		lines = append(lines, m.flush()...)

		if err != nil {
			m.cfg.logger.TraceContext(ctx, "repl eval result",
				slog.String("result_type", "error"),
				slog.Any("error", err),
			)

			return append(lines, errorStyle.Render(lang.Report(err)))
		}

		if v != nil && m.cfg.echo {
			m.cfg.logger.TraceContext(ctx, "repl eval result",
				slog.String("result_type", v.Type()),
			)

			lines = append(lines, hintStyle.Render("⇒ "+v.String()))
		}
	}

	return lines
}

// flush returns the interpreter output written since the last flush, one
// styled entry per line.
func (m model) flush() []string {
	text := strings.TrimSuffix(m.out.String(), "\n")
	m.out.Reset()

	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = resultStyle.Render(line)
	}

	return lines
}

func (m model) executeCommand(input, echo string) (model, tea.Cmd) {
	// Parse command and arguments
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(echo)

	cmd := parts[0]
	args := parts[1:]

	m.cfg.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "e", "env":
		return m, tea.Sequence(echoCmd, tea.Println(m.listBindings()))

	case "r", "reset":
		m.interp.Reset()

		return m, tea.Sequence(echoCmd,
			tea.Println(hintStyle.Render("environment cleared")))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Sequence(echoCmd, tea.Println(
			errorStyle.Render("Unknown command: "+cmd+" (try 'help')"),
		))
	}
}

// listBindings renders one line per binding, in name order.
func (m model) listBindings() string {
	env := m.interp.Env()
	if env.Len() == 0 {
		return hintStyle.Render("  (no bindings)")
	}

	var b strings.Builder

	for name, v := range env.All() {
		fmt.Fprintf(&b, "  %s %s %s\n",
			name,
			hintStyle.Render(v.Type()),
			hintStyle.Render(formatPreview(v)))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// showEntry replaces the input with a history entry, switching to its mode.
func (m model) showEntry(entry HistoryEntry) model {
	if m.mode != entry.Mode {
		m, _ = m.switchToMode(entry.Mode)
	}

	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	refreshMatches(&m, false)

	return m
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		m.historyIdx--

		if entry, err := m.history.GetEntry(m.historyIdx); err == nil {
			m = m.showEntry(entry)
		}
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx < m.history.Len()-1 {
		m.historyIdx++

		if entry, err := m.history.GetEntry(m.historyIdx); err == nil {
			m = m.showEntry(entry)
		}
	} else {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

func (m model) historyPrevInMode() (model, tea.Cmd) {
	for i := m.historyIdx - 1; i >= 0; i-- {
		if entry, err := m.history.GetEntry(i); err == nil && entry.Mode == m.mode {
			m.historyIdx = i

			return m.showEntry(entry), nil
		}
	}

	return m, nil
}

func (m model) historyNextInMode() (model, tea.Cmd) {
	for i := m.historyIdx + 1; i < m.history.Len(); i++ {
		if entry, err := m.history.GetEntry(i); err == nil && entry.Mode == m.mode {
			m.historyIdx = i

			return m.showEntry(entry), nil
		}
	}

	// Reached end of mode-specific history, clear input
	if m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

// toggleMode switches between eval and control modes, preserving input state.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	// Save current mode's input
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	// Switch to target mode
	m.mode = mode
	m.input.Prompt = m.prompt()

	if mode == modeEval {
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
