package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out    io.Writer
	format config.OutputFormat
	probed bool
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, format config.OutputFormat, probed bool) *NetworksRenderer {
	return &NetworksRenderer{
		out:    out,
		format: format,
		probed: probed,
	}
}

type networkView struct {
	Name    string `json:"name" yaml:"name"`
	RPCURL  string `json:"rpcUrl,omitempty" yaml:"rpcUrl,omitempty"`
	ChainID uint64 `json:"chainId,omitempty" yaml:"chainId,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Render renders the list of networks
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if r.format != config.FormatText {
		views := make([]networkView, 0, len(result.Networks))
		for _, n := range result.Networks {
			view := networkView{Name: n.Name, RPCURL: n.RPCURL, ChainID: n.ChainID}
			if n.Error != nil {
				view.Error = n.Error.Error()
			}
			views = append(views, view)
		}
		return writeStructured(r.out, r.format, map[string]any{"networks": views})
	}

	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in catapult.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		switch {
		case network.Error != nil:
			fmt.Fprintf(r.out, "  ❌ %s - Error: %v\n", network.Name, network.Error)
		case r.probed:
			fmt.Fprintf(r.out, "  ✅ %s - Chain ID: %d (%s)\n", network.Name, network.ChainID, network.RPCURL)
		default:
			fmt.Fprintf(r.out, "  • %s - %s\n", network.Name, network.RPCURL)
		}
	}

	return nil
}
