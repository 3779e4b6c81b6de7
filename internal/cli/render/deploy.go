package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// DeployRenderer renders deployment results
type DeployRenderer struct {
	out    io.Writer
	format config.OutputFormat
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer, format config.OutputFormat) *DeployRenderer {
	return &DeployRenderer{
		out:    out,
		format: format,
	}
}

type deployView struct {
	Contract     string `json:"contract" yaml:"contract"`
	Address      string `json:"address,omitempty" yaml:"address,omitempty"`
	TxHash       string `json:"txHash,omitempty" yaml:"txHash,omitempty"`
	BlockNumber  uint64 `json:"blockNumber,omitempty" yaml:"blockNumber,omitempty"`
	GasUsed      uint64 `json:"gasUsed,omitempty" yaml:"gasUsed,omitempty"`
	EstimatedGas uint64 `json:"estimatedGas" yaml:"estimatedGas"`
	Deployer     string `json:"deployer" yaml:"deployer"`
	ChainID      uint64 `json:"chainId" yaml:"chainId"`
	Network      string `json:"network" yaml:"network"`
	RPCURL       string `json:"rpcUrl" yaml:"rpcUrl"`
	DeploymentID string `json:"deploymentId,omitempty" yaml:"deploymentId,omitempty"`
	Recorded     bool   `json:"recorded" yaml:"recorded"`
	DryRun       bool   `json:"dryRun" yaml:"dryRun"`
}

func newDeployView(result *usecase.DeployContractResult) deployView {
	view := deployView{
		Contract:     result.Plan.Artifact.Name,
		EstimatedGas: result.Plan.EstimatedGas,
		Deployer:     result.Plan.From.Hex(),
		ChainID:      result.Node.ChainID,
		Network:      result.Plan.Network,
		RPCURL:       result.Node.RPCURL,
		Recorded:     result.Recorded,
		DryRun:       result.DryRun,
	}
	if result.Receipt != nil {
		view.TxHash = result.Receipt.TxHash.Hex()
		view.BlockNumber = result.Receipt.BlockNumber
		view.GasUsed = result.Receipt.GasUsed
	}
	if result.Handle != nil {
		view.Address = result.Handle.Address.Hex()
	}
	if result.Record != nil {
		view.Contract = result.Record.Name
		if result.Recorded {
			view.DeploymentID = result.Record.ID
		}
	}
	return view
}

// Render renders the deployment result
func (r *DeployRenderer) Render(result *usecase.DeployContractResult) error {
	view := newDeployView(result)
	if r.format != config.FormatText {
		return writeStructured(r.out, r.format, view)
	}

	if result.DryRun {
		fmt.Fprintln(r.out, FormatWarning("Dry run: nothing was submitted"))
		fmt.Fprintln(r.out)
		r.field("Contract", nameStyle.Sprint(view.Contract))
		r.field("Deployer", view.Deployer)
		r.field("Chain", fmt.Sprintf("%d (%s)", view.ChainID, view.Network))
		r.field("Estimated gas", fmt.Sprintf("%d", view.EstimatedGas))
		r.field("Calldata", fmt.Sprintf("%d bytes", len(result.Plan.Calldata)))
		if result.Plan.Artifact.HasConstructorInputs() {
			r.field("Arguments", fmt.Sprintf("%v", result.Plan.RawArgs))
		}
		return nil
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %s at %s", nameStyle.Sprint(view.Contract), addressStyle.Sprint(view.Address))))
	fmt.Fprintln(r.out)
	r.field("Transaction", view.TxHash)
	r.field("Block", fmt.Sprintf("%d", view.BlockNumber))
	r.field("Gas used", fmt.Sprintf("%d (estimated %d)", view.GasUsed, view.EstimatedGas))
	r.field("Deployer", view.Deployer)
	r.field("Chain", fmt.Sprintf("%d (%s)", view.ChainID, view.Network))
	if view.Recorded {
		r.field("Recorded as", view.DeploymentID)
	}

	return nil
}

func (r *DeployRenderer) field(label, value string) {
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-14s", label+":"), value)
}
