package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NodeRenderer renders local node operations and connectivity checks
type NodeRenderer struct {
	out    io.Writer
	format config.OutputFormat
}

// NewNodeRenderer creates a new node renderer
func NewNodeRenderer(out io.Writer, format config.OutputFormat) *NodeRenderer {
	return &NodeRenderer{
		out:    out,
		format: format,
	}
}

// Render renders the node operation result
func (r *NodeRenderer) Render(result *usecase.ManageNodeResult) error {
	if r.format != config.FormatText {
		return writeStructured(r.out, r.format, map[string]any{
			"operation": result.Operation,
			"instance":  result.Instance,
			"status":    result.Status,
			"message":   result.Message,
		})
	}

	switch result.Operation {
	case usecase.NodeStart, usecase.NodeRestart:
		fmt.Fprintln(r.out, FormatSuccess(titleCase(result.Operation)+": "+result.Message))
		if result.Status != nil {
			color.New(color.FgYellow).Fprintf(r.out, "📋 Logs: %s\n", result.Status.LogFile)
			color.New(color.FgBlue).Fprintf(r.out, "🌐 RPC URL: %s\n", result.Status.RPCURL)
		}
		return nil
	case usecase.NodeStop:
		fmt.Fprintln(r.out, FormatSuccess(titleCase(result.Operation)+": "+result.Message))
		return nil
	case usecase.NodeStatus:
		return r.renderStatus(result)
	default:
		return fmt.Errorf("unknown operation: %s", result.Operation)
	}
}

func (r *NodeRenderer) renderStatus(result *usecase.ManageNodeResult) error {
	status := result.Status
	color.New(color.FgCyan, color.Bold).Fprintf(r.out, "📊 Anvil Status ('%s'):\n", result.Instance.Name)

	if !status.Running {
		color.New(color.FgRed).Fprintln(r.out, "Status: 🔴 Not running")
		if status.Error != "" {
			fmt.Fprintln(r.out, FormatWarning(status.Error))
		}
		return nil
	}

	color.New(color.FgGreen).Fprintf(r.out, "Status: 🟢 Running (PID %d)\n", status.PID)
	color.New(color.FgBlue).Fprintf(r.out, "RPC URL: %s\n", status.RPCURL)
	color.New(color.FgYellow).Fprintf(r.out, "Log file: %s\n", status.LogFile)

	if status.RPCHealthy {
		color.New(color.FgGreen).Fprintf(r.out, "RPC Health: ✅ Responding (chain %d, block %d)\n", status.ChainID, status.BlockNumber)
	} else {
		color.New(color.FgRed).Fprintln(r.out, "RPC Health: ❌ Not responding")
		if status.Error != "" {
			fmt.Fprintf(r.out, "  %s\n", FormatError(status.Error))
		}
	}
	return nil
}

// RenderNodeInfo renders the answer of a connectivity check
func (r *NodeRenderer) RenderNodeInfo(info *domain.NodeInfo) error {
	if r.format != config.FormatText {
		return writeStructured(r.out, r.format, info)
	}

	fmt.Fprintln(r.out, FormatSuccess("Connected to "+info.RPCURL))
	fmt.Fprintf(r.out, "  %s %d\n", labelStyle.Sprintf("%-14s", "Chain ID:"), info.ChainID)
	fmt.Fprintf(r.out, "  %s %d\n", labelStyle.Sprintf("%-14s", "Block:"), info.BlockNumber)
	if info.ClientVersion != "" {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-14s", "Client:"), info.ClientVersion)
	}
	if info.IsLocalDevChain() {
		fmt.Fprintf(r.out, "  %s\n", labelStyle.Sprint("local development chain"))
	}
	return nil
}
