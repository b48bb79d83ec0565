package chain

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Name identifies one of the deployed AquaFund contracts.
type Name string

const (
	Registry Name = "Registry"
	Factory  Name = "Factory"
	Project  Name = "Project"
	Badge    Name = "Badge"
)

var abiFiles = map[Name]string{
	Registry: "abis/AquaFundRegistry.json",
	Factory:  "abis/AquaFundFactory.json",
	Project:  "abis/AquaFundProject.json",
	Badge:    "abis/AquaFundBadge.json",
}

//go:embed abis/*.json
var abiFS embed.FS

// Contract is a parsed ABI plus its deployed address. Project has no fixed address;
// each call names the instance.
type Contract struct {
	Name    Name
	Address common.Address
	ABI     abi.ABI
}

// Addresses are the configured deployments.
type Addresses struct {
	Registry string
	Factory  string
	Badge    string
}

func (a Addresses) of(name Name) common.Address {
	switch name {
	case Registry:
		return common.HexToAddress(a.Registry)
	case Factory:
		return common.HexToAddress(a.Factory)
	case Badge:
		return common.HexToAddress(a.Badge)
	default:
		return common.Address{}
	}
}

func loadContracts(addrs Addresses) (map[Name]*Contract, error) {
	out := make(map[Name]*Contract, len(abiFiles))
	for name, file := range abiFiles {
		data, err := abiFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("chain: read %s ABI: %w", name, err)
		}
		parsed, err := ParseABI(data)
		if err != nil {
			return nil, fmt.Errorf("chain: %s: %w", name, err)
		}
		out[name] = &Contract{Name: name, Address: addrs.of(name), ABI: parsed}
	}
	return out, nil
}

// ParseABI accepts a bare ABI array or a compiled artifact with an "abi" field.
func ParseABI(data []byte) (abi.ABI, error) {
	var artifact struct {
		ABI json.RawMessage `json:"abi"`
	}
	if err := json.Unmarshal(data, &artifact); err == nil && artifact.ABI != nil {
		parsed, err := abi.JSON(bytes.NewReader(artifact.ABI))
		if err != nil {
			return abi.ABI{}, fmt.Errorf("parse ABI from artifact: %w", err)
		}
		return parsed, nil
	}
	parsed, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse ABI: %w", err)
	}
	return parsed, nil
}
