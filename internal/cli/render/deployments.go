package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

var (
	chainHeader     = color.New(color.BgCyan, color.FgBlack)
	chainHeaderBold = color.New(color.BgCyan, color.FgBlack, color.Bold)
	timestampStyle  = color.New(color.Faint)
	labelTagStyle   = color.New(color.FgCyan)
)

// DeploymentsRenderer renders deployment lists grouped by chain
type DeploymentsRenderer struct {
	out    io.Writer
	format config.OutputFormat
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer, format config.OutputFormat) *DeploymentsRenderer {
	return &DeploymentsRenderer{
		out:    out,
		format: format,
	}
}

// Render renders the deployment list
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	if r.format != config.FormatText {
		deployments := result.Deployments
		if deployments == nil {
			deployments = []*domain.DeploymentRecord{}
		}
		return writeStructured(r.out, r.format, map[string]any{
			"deployments": deployments,
			"count":       len(deployments),
		})
	}

	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	byChain := lo.GroupBy(result.Deployments, func(d *domain.DeploymentRecord) uint64 {
		return d.ChainID
	})
	chainIDs := lo.Keys(byChain)
	sort.Slice(chainIDs, func(i, j int) bool { return chainIDs[i] < chainIDs[j] })

	for i, chainID := range chainIDs {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		records := byChain[chainID]
		network := lo.FindOrElse(records, records[0], func(d *domain.DeploymentRecord) bool {
			return d.Network != ""
		}).Network

		header := fmt.Sprintf("%d", chainID)
		if network != "" {
			header = fmt.Sprintf("%d (%s)", chainID, network)
		}
		fmt.Fprintf(r.out, "%s%s\n", chainHeader.Sprintf(" ⛓ %-8s", "chain:"), chainHeaderBold.Sprintf(" %-30s", header))
		fmt.Fprintln(r.out)

		r.renderTable(records)
	}

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "Total deployments: %d\n", len(result.Deployments))
	return nil
}

func (r *DeploymentsRenderer) renderTable(records []*domain.DeploymentRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].DeployedAt.Before(records[j].DeployedAt)
	})

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateRows = false

	for _, d := range records {
		name := nameStyle.Sprint(d.Name)
		if d.Label != "" {
			name += labelTagStyle.Sprint(":" + d.Label)
		}
		t.AppendRow(table.Row{
			"  " + name,
			addressStyle.Sprint(d.Address),
			fmt.Sprintf("block %d", d.BlockNumber),
			timestampStyle.Sprint(d.DeployedAt.Local().Format("2006-01-02 15:04:05")),
		})
	}
	t.Render()
}
