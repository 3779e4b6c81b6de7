package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// DeploymentRenderer renders a single deployment record
type DeploymentRenderer struct {
	out    io.Writer
	format config.OutputFormat
}

// NewDeploymentRenderer creates a new deployment renderer
func NewDeploymentRenderer(out io.Writer, format config.OutputFormat) *DeploymentRenderer {
	return &DeploymentRenderer{
		out:    out,
		format: format,
	}
}

// Render renders the deployment details
func (r *DeploymentRenderer) Render(d *domain.DeploymentRecord) error {
	if r.format != config.FormatText {
		return writeStructured(r.out, r.format, d)
	}

	headerStyle.Fprintf(r.out, "Deployment: %s\n", d.ID)
	fmt.Fprintln(r.out)

	r.field("Contract", nameStyle.Sprint(d.DisplayName()))
	r.field("Address", addressStyle.Sprint(d.Address))
	if d.Network != "" {
		r.field("Chain", fmt.Sprintf("%d (%s)", d.ChainID, d.Network))
	} else {
		r.field("Chain", fmt.Sprintf("%d", d.ChainID))
	}
	r.field("Deployer", d.Deployer)
	fmt.Fprintln(r.out)

	headerStyle.Fprintln(r.out, "Transaction")
	r.field("Hash", d.TxHash)
	r.field("Block", fmt.Sprintf("%d", d.BlockNumber))
	r.field("Gas used", fmt.Sprintf("%d", d.GasUsed))
	r.field("Deployed at", d.DeployedAt.Local().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintln(r.out)

	headerStyle.Fprintln(r.out, "Artifact")
	if d.ABIPath != "" {
		r.field("ABI", d.ABIPath)
	}
	if d.BinPath != "" {
		r.field("Bytecode", d.BinPath)
	}
	r.field("Bytecode hash", d.BytecodeHash)

	return nil
}

func (r *DeploymentRenderer) field(label, value string) {
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-14s", label+":"), value)
}
