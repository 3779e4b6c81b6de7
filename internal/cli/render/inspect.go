package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// InspectRenderer renders an artifact summary
type InspectRenderer struct {
	out    io.Writer
	format config.OutputFormat
}

// NewInspectRenderer creates a new inspect renderer
func NewInspectRenderer(out io.Writer, format config.OutputFormat) *InspectRenderer {
	return &InspectRenderer{
		out:    out,
		format: format,
	}
}

type inspectView struct {
	Name         string   `json:"name" yaml:"name"`
	Source       string   `json:"source" yaml:"source"`
	ABIPath      string   `json:"abiPath" yaml:"abiPath"`
	BinPath      string   `json:"binPath,omitempty" yaml:"binPath,omitempty"`
	Constructor  string   `json:"constructor" yaml:"constructor"`
	Functions    []string `json:"functions" yaml:"functions"`
	Events       []string `json:"events" yaml:"events"`
	BytecodeSize int      `json:"bytecodeSize" yaml:"bytecodeSize"`
	BytecodeHash string   `json:"bytecodeHash" yaml:"bytecodeHash"`
}

// Render renders the artifact summary
func (r *InspectRenderer) Render(result *usecase.InspectArtifactResult) error {
	view := inspectView{
		Name:         result.Artifact.Name,
		Source:       string(result.Artifact.Source),
		ABIPath:      result.Artifact.ABIPath,
		BinPath:      result.Artifact.BinPath,
		Constructor:  "constructor(" + formatArguments(result.Constructor.Inputs) + ")",
		Functions:    make([]string, 0, len(result.Functions)),
		Events:       make([]string, 0, len(result.Events)),
		BytecodeSize: result.BytecodeSize,
		BytecodeHash: result.Artifact.BytecodeHash().Hex(),
	}
	for _, m := range result.Functions {
		view.Functions = append(view.Functions, formatMethod(m))
	}
	for _, e := range result.Events {
		view.Events = append(view.Events, fmt.Sprintf("%s(%s)", e.Name, formatArguments(e.Inputs)))
	}

	if r.format != config.FormatText {
		return writeStructured(r.out, r.format, view)
	}

	headerStyle.Fprintf(r.out, "Artifact: %s\n", nameStyle.Sprint(view.Name))
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-14s", "Source:"), view.Source)
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-14s", "ABI:"), view.ABIPath)
	if view.BinPath != "" {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-14s", "Bytecode:"), view.BinPath)
	}
	fmt.Fprintf(r.out, "  %s %d bytes (%s)\n", labelStyle.Sprintf("%-14s", "Size:"), view.BytecodeSize, view.BytecodeHash)
	fmt.Fprintln(r.out)

	fmt.Fprintf(r.out, "  %s\n", view.Constructor)

	if len(view.Functions) > 0 {
		fmt.Fprintln(r.out)
		headerStyle.Fprintln(r.out, "Functions")
		for _, f := range view.Functions {
			fmt.Fprintf(r.out, "  %s\n", f)
		}
	}

	if len(view.Events) > 0 {
		fmt.Fprintln(r.out)
		headerStyle.Fprintln(r.out, "Events")
		for _, e := range view.Events {
			fmt.Fprintf(r.out, "  %s\n", e)
		}
	}

	return nil
}

func formatMethod(m abi.Method) string {
	sig := fmt.Sprintf("%s(%s)", m.Name, formatArguments(m.Inputs))
	if m.StateMutability != "" && m.StateMutability != "nonpayable" {
		sig += " " + m.StateMutability
	}
	if len(m.Outputs) > 0 {
		sig += " returns (" + formatArguments(m.Outputs) + ")"
	}
	return sig
}

func formatArguments(args abi.Arguments) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.Type.String()
		if arg.Name != "" {
			parts[i] += " " + arg.Name
		}
	}
	return strings.Join(parts, ", ")
}
