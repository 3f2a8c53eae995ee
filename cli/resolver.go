package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/minilisp/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads a YAML mapping of
// flag names to values.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Keys name flags without the leading dashes; hyphens may also be written
// as underscores. Scalars are passed to kong as text and sequences are
// joined with commas, so every flag type parses them as it would a
// command-line value:
//
//	log-level: debug
//	log_pretty: false
//	engine: vm
//	max-depth: 500
//	include: [lib, vendor/lib]
//
// Command-line flags override config file values. A file that is not a
// YAML mapping is ignored with a warning.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var values map[string]any

		err = yaml.UnmarshalContext(ctx, data, &values)
		if err != nil {
			log.WarnContext(ctx, "ignoring invalid configuration",
				slog.String("error", err.Error()),
			)

			return config{}, nil
		}

		cfg := make(config, len(values))
		for key, value := range values {
			if text, ok := flagText(value); ok {
				cfg[strings.ReplaceAll(key, "_", "-")] = text
			}
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] for YAML configs. Keys are normalized
// to use hyphens.
type config map[string]string

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flagText renders a decoded YAML value as command-line text. Mappings
// and nulls have no flag form.
func flagText(value any) (string, bool) {
	switch v := value.(type) {
	case nil, map[string]any:
		return "", false

	case string:
		return v, true

	case bool:
		return strconv.FormatBool(v), true

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true

	case []any:
		items := make([]string, 0, len(v))

		for _, item := range v {
			if text, ok := flagText(item); ok {
				items = append(items, text)
			}
		}

		return strings.Join(items, ","), true

	default:
		return fmt.Sprint(v), true
	}
}
