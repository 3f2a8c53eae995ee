package lang

import (
	"log/slog"
	"sort"
)

func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// nodeAttrs describes a node for structured logging.
func nodeAttrs(n Node) []slog.Attr {
	if n == nil {
		return nil
	}

	return []slog.Attr{
		slog.String("node", n.Kind().String()),
		slog.Int("line", n.Pos().Line),
		slog.Int("column", n.Pos().Column),
	}
}

// sourceText defers formatting a node until a record is written.
type sourceText struct{ n Node }

func (s sourceText) LogValue() slog.Value {
	return slog.StringValue(FormatNode(s.n))
}
