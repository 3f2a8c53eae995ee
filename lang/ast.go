package lang

//go:generate go tool stringer --linecomment --type NodeKind,Operator,PrintKind --output ast_string.go

import "iter"

// Node is an element of the abstract syntax tree.
//
// The concrete node types are [*Number], [*Boolean], [*Variable],
// [*Arithmetic], [*Logical], [*Not], [*Comparison], [*Equal],
// [*FunctionLiteral], [*Call], [*If], [*Define] and [*Print].
// Define and Print only appear as top-level statements.
type Node interface {
	Kind() NodeKind
	Pos() Position
}

// NodeKind identifies the variant of a [Node].
type NodeKind int

const (
	NodeNumber     NodeKind = iota // Number
	NodeBoolean                    // Boolean
	NodeVariable                   // Variable
	NodeArithmetic                 // Arithmetic
	NodeLogical                    // Logical
	NodeNot                        // Not
	NodeComparison                 // Comparison
	NodeEqual                      // Equal
	NodeFunction                   // Function
	NodeCall                       // Call
	NodeIf                         // If
	NodeDefine                     // Define
	NodePrint                      // Print
)

// Operator names the operation of an [Arithmetic], [Logical] or
// [Comparison] node.
type Operator int

const (
	OpAdd     Operator = iota // +
	OpSub                     // -
	OpMul                     // *
	OpDiv                     // /
	OpMod                     // mod
	OpAnd                     // and
	OpOr                      // or
	OpGreater                 // >
	OpLess                    // <
)

// PrintKind selects the output form of a [Print] statement.
type PrintKind int

const (
	PrintNum  PrintKind = iota // print-num
	PrintBool                  // print-bool
)

// Number is an integer literal.
type Number struct {
	Value int64
	Start Position
}

// Boolean is a boolean literal.
type Boolean struct {
	Value bool
	Start Position
}

// Variable is a reference to a bound identifier.
type Variable struct {
	Name  string
	Start Position
}

// Arithmetic is one of + - * / mod.
// + and * carry two or more operands; the others exactly two.
type Arithmetic struct {
	Op       Operator
	Operands []Node
	Start    Position
}

// Logical is and/or over two or more operands.
type Logical struct {
	Op       Operator
	Operands []Node
	Start    Position
}

// Not negates the truthiness of its operand.
type Not struct {
	Operand Node
	Start   Position
}

// Comparison is a strict numeric > or <.
type Comparison struct {
	Op          Operator
	Left, Right Node
	Start       Position
}

// Equal holds when every operand equals the first.
type Equal struct {
	Operands []Node
	Start    Position
}

// FunctionLiteral is an anonymous function. It is also a runtime [Value]:
// functions evaluate to their own literal.
//
// Params is parsed as a list of expressions and validated when the
// function is called. Only the first Body expression is ever evaluated.
type FunctionLiteral struct {
	Params []Node
	Body   []Node
	Start  Position
}

// Call applies a named or inline function to arguments.
// Target is a [*Variable] or a [*FunctionLiteral].
type Call struct {
	Target Node
	Args   []Node
	Start  Position
}

// If evaluates exactly one of its branches.
type If struct {
	Cond, Then, Else Node
	Start            Position
}

// Define binds Name in the global environment.
type Define struct {
	Name  string
	Value Node
	Start Position
}

// Print writes the value of an expression as one output line.
type Print struct {
	Form  PrintKind
	Value Node
	Start Position
}

func (*Number) Kind() NodeKind          { return NodeNumber }
func (*Boolean) Kind() NodeKind         { return NodeBoolean }
func (*Variable) Kind() NodeKind        { return NodeVariable }
func (*Arithmetic) Kind() NodeKind      { return NodeArithmetic }
func (*Logical) Kind() NodeKind         { return NodeLogical }
func (*Not) Kind() NodeKind             { return NodeNot }
func (*Comparison) Kind() NodeKind      { return NodeComparison }
func (*Equal) Kind() NodeKind           { return NodeEqual }
func (*FunctionLiteral) Kind() NodeKind { return NodeFunction }
func (*Call) Kind() NodeKind            { return NodeCall }
func (*If) Kind() NodeKind              { return NodeIf }
func (*Define) Kind() NodeKind          { return NodeDefine }
func (*Print) Kind() NodeKind           { return NodePrint }

func (n *Number) Pos() Position          { return n.Start }
func (n *Boolean) Pos() Position         { return n.Start }
func (n *Variable) Pos() Position        { return n.Start }
func (n *Arithmetic) Pos() Position      { return n.Start }
func (n *Logical) Pos() Position         { return n.Start }
func (n *Not) Pos() Position             { return n.Start }
func (n *Comparison) Pos() Position      { return n.Start }
func (n *Equal) Pos() Position           { return n.Start }
func (n *FunctionLiteral) Pos() Position { return n.Start }
func (n *Call) Pos() Position            { return n.Start }
func (n *If) Pos() Position              { return n.Start }
func (n *Define) Pos() Position          { return n.Start }
func (n *Print) Pos() Position           { return n.Start }

// Program is a parsed list of top-level statements.
type Program struct {
	Statements []Node
}

// All returns an iterator over the statements in source order.
func (p *Program) All() iter.Seq2[int, Node] {
	return func(yield func(int, Node) bool) {
		if p == nil {
			return
		}

		for i, n := range p.Statements {
			if !yield(i, n) {
				return
			}
		}
	}
}

// Len returns the number of statements.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}

	return len(p.Statements)
}

// Walk calls fn for n and each of its descendants in depth-first source
// order, stopping early when fn returns false.
func Walk(n Node, fn func(Node) bool) bool {
	if n == nil {
		return true
	}

	if !fn(n) {
		return false
	}

	for _, c := range children(n) {
		if !Walk(c, fn) {
			return false
		}
	}

	return true
}

// children returns the direct subexpressions of n in source order.
func children(n Node) []Node {
	switch n := n.(type) {
	case *Arithmetic:
		return n.Operands

	case *Logical:
		return n.Operands

	case *Not:
		return []Node{n.Operand}

	case *Comparison:
		return []Node{n.Left, n.Right}

	case *Equal:
		return n.Operands

	case *FunctionLiteral:
		return append(append([]Node(nil), n.Params...), n.Body...)

	case *Call:
		return append([]Node{n.Target}, n.Args...)

	case *If:
		return []Node{n.Cond, n.Then, n.Else}

	case *Define:
		return []Node{n.Value}

	case *Print:
		return []Node{n.Value}

	default:
		return nil
	}
}
