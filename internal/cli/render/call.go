package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// CallRenderer renders decoded call outputs
type CallRenderer struct {
	out    io.Writer
	format config.OutputFormat
}

// NewCallRenderer creates a new call renderer
func NewCallRenderer(out io.Writer, format config.OutputFormat) *CallRenderer {
	return &CallRenderer{
		out:    out,
		format: format,
	}
}

type callOutput struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value" yaml:"value"`
}

// Render renders the call result
func (r *CallRenderer) Render(result *usecase.CallContractResult) error {
	outputs := make([]callOutput, len(result.Outputs))
	for i, value := range result.Outputs {
		out := callOutput{Value: value}
		if i < len(result.Method.Outputs) {
			out.Name = result.Method.Outputs[i].Name
			out.Type = result.Method.Outputs[i].Type.String()
		}
		outputs[i] = out
	}

	if r.format != config.FormatText {
		for i := range outputs {
			outputs[i].Value = StructuredValue(outputs[i].Value)
		}
		return writeStructured(r.out, r.format, map[string]any{
			"address":   result.Address.Hex(),
			"chainId":   result.Node.ChainID,
			"method":    result.Method.Sig,
			"simulated": result.Simulated,
			"outputs":   outputs,
		})
	}

	if result.Simulated {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s is %s; the call was simulated and nothing was sent", result.Method.Name, result.Method.StateMutability)))
	}

	if len(outputs) == 0 {
		fmt.Fprintln(r.out, labelStyle.Sprint("(no return values)"))
		return nil
	}

	for _, out := range outputs {
		if out.Name != "" {
			fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprintf("%s %s:", out.Type, out.Name), FormatValue(out.Value))
			continue
		}
		fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprintf("%s:", out.Type), FormatValue(out.Value))
	}
	return nil
}
