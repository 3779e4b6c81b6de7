package interactive

import (
	"context"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

func TestFuzzySearcher(t *testing.T) {
	items := []string{"Counter 0x5FbDB2315678afecb367f032d93F642f64180aa3", "Token:v2 0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"}
	search := FuzzySearcher(items)

	assert.True(t, search("", 0))
	assert.True(t, search("count", 0))
	assert.False(t, search("count", 1))
	assert.True(t, search("TKN", 1))
	assert.True(t, search("tkv2", 1))
	assert.False(t, search("zzz", 0))
}

func TestFormatDeploymentOptions(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	options := FormatDeploymentOptions([]*domain.DeploymentRecord{{
		Name:       "Token",
		Label:      "v2",
		ChainID:    31337,
		Address:    "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
		DeployedAt: time.Date(2026, 3, 4, 5, 6, 0, 0, time.UTC),
	}})

	require.Len(t, options, 1)
	assert.Equal(t, "Token:v2 0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512 (chain 31337, 2026-03-04 05:06)", options[0])
}

func TestSelectDeploymentWithoutPrompt(t *testing.T) {
	ctx := context.Background()
	only := &domain.DeploymentRecord{Name: "Counter"}

	selector := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true, Format: config.FormatText})

	got, err := selector.SelectDeployment(ctx, []*domain.DeploymentRecord{only}, "Select")
	require.NoError(t, err)
	assert.Same(t, only, got)

	_, err = selector.SelectDeployment(ctx, nil, "Select")
	assert.Error(t, err)

	_, err = selector.SelectDeployment(ctx, []*domain.DeploymentRecord{only, {Name: "Counter", Label: "v2"}}, "Select")
	assert.ErrorContains(t, err, "non-interactive")
}

func TestConfirmDeploymentWithoutPrompt(t *testing.T) {
	plan := &domain.DeploymentPlan{Artifact: &domain.Artifact{Name: "Counter"}, ChainID: 1}

	tests := []struct {
		name string
		cfg  *config.RuntimeConfig
	}{
		{name: "yes flag", cfg: &config.RuntimeConfig{Yes: true, Format: config.FormatText}},
		{name: "non-interactive", cfg: &config.RuntimeConfig{NonInteractive: true, Format: config.FormatText}},
		{name: "machine output", cfg: &config.RuntimeConfig{Format: config.FormatJSON}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := NewSelectorAdapter(tt.cfg).ConfirmDeployment(context.Background(), plan)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}
