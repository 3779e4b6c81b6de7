package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrArtifactNotFound is returned when an ABI, bytecode or artifact file is missing
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrInvalidArtifact is returned when an artifact cannot be parsed
	ErrInvalidArtifact = errors.New("invalid artifact")

	// ErrInvalidArgument is returned when a constructor or call argument doesn't fit its ABI type
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotConnected is returned when the node cannot be reached or was never dialed
	ErrNotConnected = errors.New("not connected to node")

	// ErrUnknownNetwork is returned when a network name is not configured
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrInvalidSender is returned when the sender configuration is unusable
	ErrInvalidSender = errors.New("invalid sender")

	// ErrDeploymentAborted is returned when the user declines the deployment
	ErrDeploymentAborted = errors.New("deployment aborted")

	// ErrDeploymentReverted is returned when the receipt reports a failed status
	ErrDeploymentReverted = errors.New("deployment reverted")

	// ErrConfirmationTimeout is returned when no receipt arrives within the confirm timeout
	ErrConfirmationTimeout = errors.New("timed out waiting for receipt")

	// ErrAddressMismatch is returned when the receipt address differs from the predicted one
	ErrAddressMismatch = errors.New("contract address mismatch")

	// ErrNodeAlreadyRunning is returned when another node already answers on the port
	ErrNodeAlreadyRunning = errors.New("a node is already listening")

	// ErrNoCode is returned when no code exists at the deployed address
	ErrNoCode = errors.New("no code at contract address")
)

// NoDeploymentMatchErr is returned when a reference matches no recorded deployment
type NoDeploymentMatchErr struct {
	Reference   string
	Suggestions []string
}

func (e NoDeploymentMatchErr) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no deployment matches '%s'", e.Reference)
	}
	return fmt.Sprintf("no deployment matches '%s', did you mean: %s", e.Reference, strings.Join(e.Suggestions, ", "))
}

func (e NoDeploymentMatchErr) Is(target error) bool {
	return target == ErrNotFound
}

// AmbiguousDeploymentErr is returned when a reference matches several deployments
// and no interactive selection is possible
type AmbiguousDeploymentErr struct {
	Reference string
	Matches   []*DeploymentRecord
}

func (e AmbiguousDeploymentErr) Error() string {
	var lines []string
	for _, m := range e.Matches {
		lines = append(lines, fmt.Sprintf("  - %s (%s)", m.DisplayName(), m.ID))
	}
	return fmt.Sprintf("multiple deployments match '%s' - use the deployment ID or address to disambiguate:\n%s",
		e.Reference, strings.Join(lines, "\n"))
}
