package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/catapult/internal/domain"
)

// linkPlaceholder marks an unresolved library reference in solc output
const linkPlaceholder = "__$"

// Loader reads contract artifacts from disk
type Loader struct {
	log *slog.Logger
}

// NewLoader creates a new artifact loader
func NewLoader(log *slog.Logger) *Loader {
	return &Loader{log: log.With("component", "artifact")}
}

// Load reads either a JSON artifact or an .abi/.bin pair
func (l *Loader) Load(ctx context.Context, ref domain.ArtifactRef) (*domain.Artifact, error) {
	var (
		artifact *domain.Artifact
		err      error
	)
	if ref.ArtifactPath != "" {
		artifact, err = l.loadJSON(ref.ArtifactPath)
	} else {
		artifact, err = l.loadPair(ref.ABIPath, ref.BinPath)
	}
	if err != nil {
		return nil, err
	}

	if ref.Name != "" {
		artifact.Name = ref.Name
	}

	l.log.Debug("loaded artifact",
		"name", artifact.Name,
		"source", artifact.Source,
		"bytecodeSize", len(artifact.Bytecode),
		"methods", len(artifact.ABI.Methods))
	return artifact, nil
}

// LoadABI reads only an ABI file. JSON artifacts are accepted too.
func (l *Loader) LoadABI(ctx context.Context, path string) (*abi.ABI, error) {
	data, err := readFile(path, "ABI")
	if err != nil {
		return nil, err
	}

	raw := bytes.TrimSpace(data)
	if len(raw) > 0 && raw[0] == '{' {
		var doc jsonArtifact
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidArtifact, path, err)
		}
		raw = doc.ABI
	}

	return parseABI(path, raw)
}

// loadPair reads the ABI first so a missing interface halts before the bytecode is touched
func (l *Loader) loadPair(abiPath, binPath string) (*domain.Artifact, error) {
	abiData, err := readFile(abiPath, "ABI")
	if err != nil {
		return nil, err
	}
	parsed, err := parseABI(abiPath, abiData)
	if err != nil {
		return nil, err
	}

	binData, err := readFile(binPath, "bytecode")
	if err != nil {
		return nil, err
	}
	bytecode, err := decodeBytecode(binPath, string(binData))
	if err != nil {
		return nil, err
	}

	return &domain.Artifact{
		Name:     baseName(abiPath),
		Source:   domain.ArtifactSourceRaw,
		ABIPath:  abiPath,
		BinPath:  binPath,
		ABI:      parsed,
		RawABI:   bytes.TrimSpace(abiData),
		Bytecode: bytecode,
	}, nil
}

// jsonArtifact covers forge (bytecode.object) and hardhat (bytecode string) layouts
type jsonArtifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
}

func (l *Loader) loadJSON(path string) (*domain.Artifact, error) {
	data, err := readFile(path, "artifact")
	if err != nil {
		return nil, err
	}

	var doc jsonArtifact
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidArtifact, path, err)
	}
	if len(doc.ABI) == 0 {
		return nil, fmt.Errorf("%w: %s has no abi", domain.ErrInvalidArtifact, path)
	}

	parsed, err := parseABI(path, doc.ABI)
	if err != nil {
		return nil, err
	}

	hexCode, err := bytecodeField(doc.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidArtifact, path, err)
	}
	bytecode, err := decodeBytecode(path, hexCode)
	if err != nil {
		return nil, err
	}

	name := doc.ContractName
	if name == "" {
		name = baseName(path)
	}

	return &domain.Artifact{
		Name:     name,
		Source:   domain.ArtifactSourceJSON,
		ABIPath:  path,
		BinPath:  path,
		ABI:      parsed,
		RawABI:   doc.ABI,
		Bytecode: bytecode,
	}, nil
}

func bytecodeField(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", errors.New("no bytecode")
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString, nil
	}

	var asObject struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(raw, &asObject); err != nil {
		return "", fmt.Errorf("unrecognized bytecode field: %v", err)
	}
	return asObject.Object, nil
}

func readFile(path, kind string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no %s path configured", domain.ErrArtifactNotFound, kind)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s file %s does not exist", domain.ErrArtifactNotFound, kind, path)
		}
		return nil, fmt.Errorf("failed to read %s file %s: %w", kind, path, err)
	}
	return data, nil
}

func parseABI(path string, data []byte) (*abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid ABI: %v", domain.ErrInvalidArtifact, path, err)
	}
	return &parsed, nil
}

// decodeBytecode trims surrounding whitespace and accepts hex with or without 0x
func decodeBytecode(path, text string) ([]byte, error) {
	code := strings.TrimSpace(text)
	if strings.Contains(code, linkPlaceholder) {
		return nil, fmt.Errorf("%w: %s contains unlinked library placeholders", domain.ErrInvalidArtifact, path)
	}
	if !strings.HasPrefix(code, "0x") && !strings.HasPrefix(code, "0X") {
		code = "0x" + code
	}

	bytecode, err := hexutil.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not valid hex: %v", domain.ErrInvalidArtifact, path, err)
	}
	if len(bytecode) == 0 {
		return nil, fmt.Errorf("%w: %s has empty bytecode (abstract contract or interface?)", domain.ErrInvalidArtifact, path)
	}
	return bytecode, nil
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
