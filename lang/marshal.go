package lang

import "encoding/json"

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts the program to a native Go map structure.
func (p *Program) ToMap() map[string]any {
	stmts := make([]any, 0, p.Len())
	for _, stmt := range p.All() {
		stmts = append(stmts, NodeMap(stmt))
	}

	return map[string]any{"statements": stmts}
}

// NodeMap converts a node to a map describing its kind, position and
// fields. Child nodes are converted recursively.
func NodeMap(n Node) map[string]any {
	if n == nil {
		return nil
	}

	m := map[string]any{
		"kind": n.Kind().String(),
		"pos":  n.Pos().String(),
	}

	switch n := n.(type) {
	case *Number:
		m["value"] = n.Value

	case *Boolean:
		m["value"] = n.Value

	case *Variable:
		m["name"] = n.Name

	case *Arithmetic:
		m["op"] = n.Op.String()
		m["operands"] = nodeMaps(n.Operands)

	case *Logical:
		m["op"] = n.Op.String()
		m["operands"] = nodeMaps(n.Operands)

	case *Not:
		m["operand"] = NodeMap(n.Operand)

	case *Comparison:
		m["op"] = n.Op.String()
		m["left"] = NodeMap(n.Left)
		m["right"] = NodeMap(n.Right)

	case *Equal:
		m["op"] = "="
		m["operands"] = nodeMaps(n.Operands)

	case *FunctionLiteral:
		m["params"] = nodeMaps(n.Params)
		m["body"] = nodeMaps(n.Body)

	case *Call:
		m["target"] = NodeMap(n.Target)
		m["args"] = nodeMaps(n.Args)

	case *If:
		m["cond"] = NodeMap(n.Cond)
		m["then"] = NodeMap(n.Then)
		m["else"] = NodeMap(n.Else)

	case *Define:
		m["name"] = n.Name
		m["value"] = NodeMap(n.Value)

	case *Print:
		m["form"] = n.Form.String()
		m["value"] = NodeMap(n.Value)
	}

	return m
}

func nodeMaps(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = NodeMap(n)
	}

	return out
}
