package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/minilisp/pkg"
)

// lineWidth is the width past which indented formatting breaks a form
// over several lines.
const lineWidth = 72

// Format writes the program in canonical source form, one statement per
// line. With indent > 0, forms wider than the line are broken over lines
// and nested by indent spaces.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	for _, stmt := range p.All() {
		var sb strings.Builder

		writeSexpr(&sb, toSexpr(stmt), indent, 0)

		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return err
		}
	}

	return nil
}

// FormatNode returns the canonical single-line source text of n.
func FormatNode(n Node) string {
	if n == nil {
		return ""
	}

	return toSexpr(n).inline()
}

// FormatJSON writes the program as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p)
	}

	if err != nil {
		return pkg.ErrJSONMarshal.Wrap(err)
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the program as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return pkg.ErrYAMLMarshal.Wrap(err)
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// FormatTree writes an indented dump of the syntax tree.
func (p *Program) FormatTree(_ context.Context, w io.Writer) error {
	for _, stmt := range p.All() {
		if err := writeTree(w, stmt, "", 0); err != nil {
			return err
		}
	}

	return nil
}

// FormatTokens writes one token per line with its position and kind.
func FormatTokens(w io.Writer, tokens []Token) error {
	for _, t := range tokens {
		_, err := fmt.Fprintf(w, "%-8s %-10s %s\n", t.Pos, t.Kind, t)
		if err != nil {
			return err
		}
	}

	return nil
}

func writeTree(w io.Writer, n Node, label string, depth int) error {
	pad := strings.Repeat("  ", depth)

	if _, err := fmt.Fprintf(w, "%s%s%s @%s\n",
		pad, label, treeHeader(n), n.Pos()); err != nil {
		return err
	}

	if fn, ok := n.(*FunctionLiteral); ok {
		for _, param := range fn.Params {
			if err := writeTree(w, param, "param: ", depth+1); err != nil {
				return err
			}
		}

		for _, body := range fn.Body {
			if err := writeTree(w, body, "body: ", depth+1); err != nil {
				return err
			}
		}

		return nil
	}

	for _, c := range children(n) {
		if err := writeTree(w, c, "", depth+1); err != nil {
			return err
		}
	}

	return nil
}

func treeHeader(n Node) string {
	kind := n.Kind().String()

	switch n := n.(type) {
	case *Number:
		return kind + " " + Int(n.Value).String()

	case *Boolean:
		return kind + " " + Bool(n.Value).String()

	case *Variable:
		return kind + " " + n.Name

	case *Arithmetic:
		return kind + " " + n.Op.String()

	case *Logical:
		return kind + " " + n.Op.String()

	case *Comparison:
		return kind + " " + n.Op.String()

	case *Define:
		return kind + " " + n.Name

	case *Print:
		return kind + " " + n.Form.String()

	default:
		return kind
	}
}

// sexpr is the printable shape of a node: an atom or a list.
type sexpr struct {
	atom string
	list []sexpr
}

func atom(s string) sexpr { return sexpr{atom: s} }

func list(head sexpr, nodes ...Node) sexpr {
	l := sexpr{list: make([]sexpr, 0, len(nodes)+1)}
	l.list = append(l.list, head)

	for _, n := range nodes {
		l.list = append(l.list, toSexpr(n))
	}

	return l
}

func toSexpr(n Node) sexpr {
	switch n := n.(type) {
	case *Number:
		return atom(strconv.FormatInt(n.Value, 10))

	case *Boolean:
		return atom(Bool(n.Value).String())

	case *Variable:
		return atom(n.Name)

	case *Arithmetic:
		return list(atom(n.Op.String()), n.Operands...)

	case *Logical:
		return list(atom(n.Op.String()), n.Operands...)

	case *Not:
		return list(atom("not"), n.Operand)

	case *Comparison:
		return list(atom(n.Op.String()), n.Left, n.Right)

	case *Equal:
		return list(atom("="), n.Operands...)

	case *FunctionLiteral:
		params := sexpr{list: make([]sexpr, 0, len(n.Params))}
		for _, p := range n.Params {
			params.list = append(params.list, toSexpr(p))
		}

		fn := sexpr{list: []sexpr{atom("fun"), params}}
		for _, b := range n.Body {
			fn.list = append(fn.list, toSexpr(b))
		}

		return fn

	case *Call:
		return list(toSexpr(n.Target), n.Args...)

	case *If:
		return list(atom("if"), n.Cond, n.Then, n.Else)

	case *Define:
		return list(atom("define"), &Variable{Name: n.Name}, n.Value)

	case *Print:
		return list(atom(n.Form.String()), n.Value)

	default:
		return atom(fmt.Sprintf("<%T>", n))
	}
}

func (e sexpr) isAtom() bool { return e.list == nil }

func (e sexpr) inline() string {
	if e.isAtom() {
		return e.atom
	}

	parts := make([]string, len(e.list))
	for i, c := range e.list {
		parts[i] = c.inline()
	}

	return "(" + strings.Join(parts, " ") + ")"
}

// keep returns how many leading elements stay on the opening line when a
// list is broken over lines.
func (e sexpr) keep() int {
	if len(e.list) > 1 && e.list[0].isAtom() {
		switch e.list[0].atom {
		case "define", "fun":
			return 2
		}
	}

	return 1
}

func writeSexpr(sb *strings.Builder, e sexpr, indent, depth int) {
	text := e.inline()

	if e.isAtom() || indent <= 0 || depth*indent+len(text) <= lineWidth {
		sb.WriteString(text)

		return
	}

	keep := min(e.keep(), len(e.list))

	sb.WriteString("(")

	for i, c := range e.list[:keep] {
		if i > 0 {
			sb.WriteString(" ")
		}

		sb.WriteString(c.inline())
	}

	for _, c := range e.list[keep:] {
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", (depth+1)*indent))
		writeSexpr(sb, c, indent, depth+1)
	}

	sb.WriteString(")")
}
