package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/trebuchet-org/catapult/internal/domain/config"
	"gopkg.in/yaml.v3"
)

type Renderer[T any] interface {
	Render(result T) error
}

// writeStructured prints v as indented JSON or YAML
func writeStructured(out io.Writer, format config.OutputFormat, v any) error {
	switch format {
	case config.FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case config.FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported structured format %q", format)
	}
}
