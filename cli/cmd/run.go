package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/minilisp/lang"
	"github.com/ardnew/minilisp/log"
	"github.com/ardnew/minilisp/pkg"
)

// Run executes one or more source files as a single program.
type Run struct {
	Engine   string   `default:"tree"          enum:"${engines}" help:"Evaluation engine (${enum})." short:"e"`
	MaxDepth int      `default:"${maxDepth}"                     help:"Maximum nested call depth; 0 removes the bound."`
	Include  []string `                                          help:"Directory searched for relative source names." short:"I" type:"path"`

	Sources []string `arg:"" help:"Source files or '-' for stdin." name:"source" optional:""`

	stdin  io.Reader `kong:"-"`
	stdout io.Writer `kong:"-"`
}

// Run executes the run command.
//
// Print output goes to standard output. When the program fails, the error
// line "syntax error: <message>" follows the output already printed and
// [ErrProgramFailed] is returned.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	engine, ok := lang.ParseEngine(r.Engine)
	if !ok {
		return pkg.ErrInvalidFormat.Wrapf("engine %q", r.Engine)
	}

	search := SearchPath(r.Include, os.Getenv(pkg.PathEnv))

	src, err := openSources(r.Sources, search, r.input())
	if err != nil {
		return err
	}
	defer src.Close()

	log.DebugContext(ctx, "run",
		slog.Any("sources", src.Names()),
		slog.String("engine", engine.String()),
		slog.Int("max_depth", r.MaxDepth),
		slog.Any("search", search),
	)

	out := r.output()

	in := lang.New(out,
		lang.WithEngine(engine),
		lang.WithMaxDepth(r.MaxDepth),
		lang.WithLogger(log.Default()),
	)

	err = in.ExecReader(ctx, src)
	if err == nil {
		return nil
	}

	if lang.KindOf(err) == lang.KindUnknown {
		return err
	}

	if _, werr := fmt.Fprintln(out, lang.Report(err)); werr != nil {
		return werr
	}

	return ErrProgramFailed.
		With(slog.String("kind", lang.KindOf(err).String())).
		Wrap(err)
}

func (r *Run) input() io.Reader {
	if r.stdin == nil {
		return os.Stdin
	}

	return r.stdin
}

func (r *Run) output() io.Writer {
	if r.stdout == nil {
		return os.Stdout
	}

	return r.stdout
}
