package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/ardnew/minilisp/cli/cmd/repl"
	"github.com/ardnew/minilisp/lang"
	"github.com/ardnew/minilisp/log"
	"github.com/ardnew/minilisp/pkg"
)

// Repl starts an interactive session.
type Repl struct {
	Engine   string   `default:"tree"        enum:"${engines}" help:"Evaluation engine (${enum})." short:"e"`
	MaxDepth int      `default:"${maxDepth}"                   help:"Maximum nested call depth; 0 removes the bound."`
	Include  []string `                                        help:"Directory searched for relative source names." short:"I" type:"path"`
	Echo     bool     `default:"true"                          help:"Show the value of bare expressions." negatable:""`

	Sources []string `arg:"" help:"Source files run before the first prompt." name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return ErrSession.Wrap(repl.ErrNoTerminal)
	}

	engine, ok := lang.ParseEngine(r.Engine)
	if !ok {
		return pkg.ErrInvalidFormat.Wrapf("engine %q", r.Engine)
	}

	opts := []repl.Option{
		repl.WithLogger(log.Default()),
		repl.WithEcho(r.Echo),
		repl.WithLang(
			lang.WithEngine(engine),
			lang.WithMaxDepth(r.MaxDepth),
		),
	}

	if len(r.Sources) > 0 {
		src, err := openSources(r.Sources,
			SearchPath(r.Include, os.Getenv(pkg.PathEnv)), os.Stdin)
		if err != nil {
			return err
		}
		defer src.Close()

		log.DebugContext(ctx, "repl prelude", slog.Any("sources", src.Names()))

		opts = append(opts, repl.WithPrelude(src))
	}

	err = repl.Run(ctx, opts...)
	if err != nil && lang.KindOf(err) != lang.KindUnknown {
		return ErrSession.With(slog.String("report", lang.Report(err))).Wrap(err)
	}

	return err
}
