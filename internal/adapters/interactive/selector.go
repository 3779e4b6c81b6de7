package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// SelectorAdapter handles interactive selection and confirmation
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectDeployment selects a deployment from a list
func (s *SelectorAdapter) SelectDeployment(ctx context.Context, deployments []*domain.DeploymentRecord, prompt string) (*domain.DeploymentRecord, error) {
	if len(deployments) == 0 {
		return nil, fmt.Errorf("no deployments provided for selection")
	}

	// If only one match, return it directly
	if len(deployments) == 1 {
		return deployments[0], nil
	}

	// In non-interactive mode, we can't select
	if !s.config.Interactive() {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	options := FormatDeploymentOptions(deployments)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          FuzzySearcher(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return deployments[index], nil
}

// ConfirmDeployment asks before submitting a deployment. With --yes or
// outside a terminal the deployment goes ahead without a prompt.
func (s *SelectorAdapter) ConfirmDeployment(ctx context.Context, plan *domain.DeploymentPlan) (bool, error) {
	if s.config.Yes || !s.config.Interactive() {
		return true, nil
	}

	label := fmt.Sprintf("Deploy %s to %s (chain %d) from %s",
		color.New(color.Bold).Sprint(plan.Artifact.Name),
		plan.Network, plan.ChainID, plan.From.Hex())
	if plan.EstimatedGas > 0 {
		label += fmt.Sprintf(" using ~%d gas", plan.EstimatedGas)
	}

	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	if _, err := prompt.Run(); err != nil {
		// promptui reports a "no" answer as ErrAbort
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}

// FormatDeploymentOptions creates display strings for deployment selection
func FormatDeploymentOptions(deployments []*domain.DeploymentRecord) []string {
	options := make([]string, len(deployments))
	for i, dep := range deployments {
		name := color.New(color.FgWhite, color.Bold).Sprint(dep.DisplayName())
		addr := color.New(color.FgBlue).Sprint(dep.Address)
		options[i] = fmt.Sprintf("%s %s (chain %d, %s)", name, addr, dep.ChainID, dep.DeployedAt.Format("2006-01-02 15:04"))
	}
	return options
}

// FuzzySearcher creates a fuzzy search function for promptui
func FuzzySearcher(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
		if input == "" {
			return true
		}

		// Convert to lowercase for case-insensitive search
		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		// First try simple substring match
		if strings.Contains(item, input) {
			return true
		}

		// Then try fuzzy match
		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

// Ensure the adapter implements the interfaces
var (
	_ usecase.DeploymentSelector  = (*SelectorAdapter)(nil)
	_ usecase.DeploymentConfirmer = (*SelectorAdapter)(nil)
)
