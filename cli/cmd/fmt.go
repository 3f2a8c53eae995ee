package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/minilisp/lang"
	"github.com/ardnew/minilisp/log"
)

// Fmt parses a program and prints it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical source (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree."`
	Tokens Tokens `cmd:""                    help:"List the tokens of the source."`
}

// Input is the source operand shared by the fmt subcommands.
type Input struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`

	stdin  io.Reader `kong:"-"`
	stdout io.Writer `kong:"-"`
}

func (in *Input) output() io.Writer {
	if in.stdout == nil {
		return os.Stdout
	}

	return in.stdout
}

// text reads the whole source.
func (in *Input) text() (string, error) {
	stdin := in.stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	src, err := openSources([]string{in.Source}, nil, stdin)
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// parse reads and parses the source. Parse errors carry the format name.
func (in *Input) parse(ctx context.Context, format string) (*lang.Program, error) {
	text, err := in.text()
	if err != nil {
		return nil, err
	}

	prog, err := lang.Parse(ctx, text, lang.WithLogger(log.Default()))
	if err != nil {
		return nil, lang.WrapError(err).
			With(slog.String("format", format))
	}

	return prog, nil
}

// Native formats input as canonical source.
type Native struct {
	Indent int `default:"0" help:"Indent width; 0 prints one statement per line." short:"i"`

	Input `embed:""`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := f.parse(ctx, "native")
	if err != nil {
		return err
	}

	return prog.Format(ctx, f.output(), f.Indent)
}

// JSON formats the syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Input `embed:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	return prog.FormatJSON(ctx, j.output(), j.Indent)
}

// YAML formats the syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Input `embed:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	return prog.FormatYAML(ctx, y.output(), y.Indent)
}

// AST prints an indented dump of the syntax tree.
type AST struct {
	Input `embed:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := a.parse(ctx, "ast")
	if err != nil {
		return err
	}

	return prog.FormatTree(ctx, a.output())
}

// Tokens prints one token per line.
type Tokens struct {
	Input `embed:""`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text, err := t.text()
	if err != nil {
		return err
	}

	tokens, err := lang.Lex(text)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("format", "tokens"))
	}

	return lang.FormatTokens(t.output(), tokens)
}
