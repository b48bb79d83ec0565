package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PlatformStats is Registry.getPlatformStats with amounts as decimal strings.
type PlatformStats struct {
	TotalProjects    string `json:"totalProjects"`
	TotalFundsRaised string `json:"totalFundsRaised"`
	TotalDonors      string `json:"totalDonors"`
	TotalDonations   string `json:"totalDonations"`
}

// ProjectDetails is the on-chain half of a project record.
type ProjectDetails struct {
	Admin       string `json:"admin"`
	Creator     string `json:"creator"`
	FundingGoal string `json:"fundingGoal"`
	FundsRaised string `json:"fundsRaised"`
	Status      uint8  `json:"status"`
}

// ProjectPage is one page of Registry.getProjectsPaginated.
type ProjectPage struct {
	IDs   []string `json:"ids"`
	Total string   `json:"total"`
}

func (g *Gateway) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	out, err := g.Call(ctx, Registry, common.Address{}, "getPlatformStats")
	if err != nil {
		return nil, err
	}
	nums, err := bigInts(out, 4)
	if err != nil {
		return nil, fmt.Errorf("chain: getPlatformStats: %w", err)
	}
	return &PlatformStats{
		TotalProjects:    nums[0].String(),
		TotalFundsRaised: nums[1].String(),
		TotalDonors:      nums[2].String(),
		TotalDonations:   nums[3].String(),
	}, nil
}

func (g *Gateway) AllProjectIDs(ctx context.Context) ([]string, error) {
	out, err := g.Call(ctx, Registry, common.Address{}, "getAllProjectIds")
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("chain: getAllProjectIds: expected 1 output, got %d", len(out))
	}
	ids, ok := out[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("chain: getAllProjectIds: unexpected type %T", out[0])
	}
	return decimalStrings(ids), nil
}

func (g *Gateway) ProjectsPaginated(ctx context.Context, offset, limit uint64) (*ProjectPage, error) {
	out, err := g.Call(ctx, Registry, common.Address{}, "getProjectsPaginated",
		new(big.Int).SetUint64(offset), new(big.Int).SetUint64(limit))
	if err != nil {
		return nil, err
	}
	if len(out) != 2 {
		return nil, fmt.Errorf("chain: getProjectsPaginated: expected 2 outputs, got %d", len(out))
	}
	ids, ok := out[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("chain: getProjectsPaginated: unexpected type %T", out[0])
	}
	total, ok := out[1].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("chain: getProjectsPaginated: unexpected type %T", out[1])
	}
	return &ProjectPage{IDs: decimalStrings(ids), Total: total.String()}, nil
}

func (g *Gateway) ProjectDetails(ctx context.Context, projectID *big.Int) (*ProjectDetails, error) {
	out, err := g.Call(ctx, Registry, common.Address{}, "getProjectDetails", projectID)
	if err != nil {
		return nil, err
	}
	if len(out) != 5 {
		return nil, fmt.Errorf("chain: getProjectDetails: expected 5 outputs, got %d", len(out))
	}
	admin, ok1 := out[0].(common.Address)
	creator, ok2 := out[1].(common.Address)
	goal, ok3 := out[2].(*big.Int)
	raised, ok4 := out[3].(*big.Int)
	status, ok5 := out[4].(uint8)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return nil, fmt.Errorf("chain: getProjectDetails: unexpected output types")
	}
	return &ProjectDetails{
		Admin:       admin.Hex(),
		Creator:     creator.Hex(),
		FundingGoal: goal.String(),
		FundsRaised: raised.String(),
		Status:      status,
	}, nil
}

// ProjectAddress resolves a project's contract instance. The zero address counts as a revert.
func (g *Gateway) ProjectAddress(ctx context.Context, projectID *big.Int) (common.Address, error) {
	out, err := g.Call(ctx, Factory, common.Address{}, "getProjectAddress", projectID)
	if err != nil {
		return common.Address{}, err
	}
	addr, err := singleAddress(out)
	if err != nil {
		return common.Address{}, fmt.Errorf("chain: getProjectAddress: %w", err)
	}
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: project %s has no contract", ErrContractRevert, projectID)
	}
	return addr, nil
}

func (g *Gateway) Donors(ctx context.Context, project common.Address) ([]common.Address, error) {
	out, err := g.Call(ctx, Project, project, "getDonors")
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("chain: getDonors: expected 1 output, got %d", len(out))
	}
	donors, ok := out[0].([]common.Address)
	if !ok {
		return nil, fmt.Errorf("chain: getDonors: unexpected type %T", out[0])
	}
	return donors, nil
}

// DonationOf is the donor's cumulative amount in wei.
func (g *Gateway) DonationOf(ctx context.Context, project, donor common.Address) (*big.Int, error) {
	out, err := g.Call(ctx, Project, project, "getDonation", donor)
	if err != nil {
		return nil, err
	}
	nums, err := bigInts(out, 1)
	if err != nil {
		return nil, fmt.Errorf("chain: getDonation: %w", err)
	}
	return nums[0], nil
}

func (g *Gateway) BadgeBalance(ctx context.Context, owner common.Address) (*big.Int, error) {
	out, err := g.Call(ctx, Badge, common.Address{}, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	nums, err := bigInts(out, 1)
	if err != nil {
		return nil, fmt.Errorf("chain: balanceOf: %w", err)
	}
	return nums[0], nil
}

func bigInts(out []interface{}, n int) ([]*big.Int, error) {
	if len(out) != n {
		return nil, fmt.Errorf("expected %d outputs, got %d", n, len(out))
	}
	nums := make([]*big.Int, n)
	for i, v := range out {
		b, ok := v.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("output %d: unexpected type %T", i, v)
		}
		nums[i] = b
	}
	return nums, nil
}

func singleAddress(out []interface{}) (common.Address, error) {
	if len(out) != 1 {
		return common.Address{}, fmt.Errorf("expected 1 output, got %d", len(out))
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected type %T", out[0])
	}
	return addr, nil
}

func decimalStrings(nums []*big.Int) []string {
	out := make([]string, len(nums))
	for i, n := range nums {
		out[i] = n.String()
	}
	return out
}
