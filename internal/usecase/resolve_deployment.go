package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

const maxSuggestions = 3

// ResolveDeployment turns a user supplied reference into a single deployment record.
// References are registry IDs (<chainId>/<address>), addresses, Name or Name:label.
type ResolveDeployment struct {
	cfg      *config.RuntimeConfig
	repo     DeploymentRepository
	selector DeploymentSelector
}

// NewResolveDeployment creates a new ResolveDeployment use case
func NewResolveDeployment(cfg *config.RuntimeConfig, repo DeploymentRepository, selector DeploymentSelector) *ResolveDeployment {
	return &ResolveDeployment{
		cfg:      cfg,
		repo:     repo,
		selector: selector,
	}
}

// Resolve finds the deployment matching ref, optionally restricted to one chain
func (uc *ResolveDeployment) Resolve(ctx context.Context, ref string, chainID uint64) (*domain.DeploymentRecord, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty deployment reference", domain.ErrInvalidArgument)
	}

	if chainPart, addressPart, ok := strings.Cut(ref, "/"); ok {
		id, err := normalizeDeploymentID(chainPart, addressPart)
		if err != nil {
			return nil, err
		}
		record, err := uc.repo.GetDeployment(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NoDeploymentMatchErr{Reference: ref}
			}
			return nil, err
		}
		return record, nil
	}

	if chainID != 0 && common.IsHexAddress(ref) {
		record, err := uc.repo.GetDeploymentByAddress(ctx, chainID, ref)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	all, err := uc.repo.ListDeployments(ctx, domain.DeploymentFilter{ChainID: chainID})
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	matches := matchReference(all, ref)
	switch len(matches) {
	case 0:
		return nil, domain.NoDeploymentMatchErr{Reference: ref, Suggestions: suggest(all, ref)}
	case 1:
		return matches[0], nil
	}

	if !uc.cfg.Interactive() {
		return nil, domain.AmbiguousDeploymentErr{Reference: ref, Matches: matches}
	}
	return uc.selector.SelectDeployment(ctx, matches, fmt.Sprintf("Multiple deployments match '%s'", ref))
}

// normalizeDeploymentID rebuilds <chainId>/<address> with the checksummed address the registry keys on
func normalizeDeploymentID(chainPart, addressPart string) (string, error) {
	chainID, err := strconv.ParseUint(chainPart, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: invalid chain ID %q in deployment ID", domain.ErrInvalidArgument, chainPart)
	}
	if !common.IsHexAddress(addressPart) {
		return "", fmt.Errorf("%w: invalid address %q in deployment ID", domain.ErrInvalidArgument, addressPart)
	}
	return domain.DeploymentID(chainID, common.HexToAddress(addressPart)), nil
}

func matchReference(records []*domain.DeploymentRecord, ref string) []*domain.DeploymentRecord {
	if common.IsHexAddress(ref) {
		address := common.HexToAddress(ref).Hex()
		return lo.Filter(records, func(d *domain.DeploymentRecord, _ int) bool {
			return d.Address == address
		})
	}

	name, label, hasLabel := strings.Cut(ref, ":")
	matches := lo.Filter(records, func(d *domain.DeploymentRecord, _ int) bool {
		return d.Name == name && (!hasLabel || d.Label == label)
	})

	// A bare name prefers the single unlabeled deployment over labeled ones
	if !hasLabel && len(matches) > 1 {
		unlabeled := lo.Filter(matches, func(d *domain.DeploymentRecord, _ int) bool {
			return d.Label == ""
		})
		if len(unlabeled) == 1 {
			return unlabeled
		}
	}

	return matches
}

func suggest(records []*domain.DeploymentRecord, ref string) []string {
	names := lo.Uniq(lo.Map(records, func(d *domain.DeploymentRecord, _ int) string {
		return d.DisplayName()
	}))

	found := fuzzy.Find(ref, names)
	suggestions := make([]string, 0, maxSuggestions)
	for _, m := range found {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, m.Str)
	}
	return suggestions
}
