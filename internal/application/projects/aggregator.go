package projects

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"aquafund-backend/internal/application/backend"
	"aquafund-backend/internal/application/chain"
	"aquafund-backend/internal/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"
)

// ChainReader is the part of the contract gateway a project record needs.
type ChainReader interface {
	ProjectAddress(ctx context.Context, projectID *big.Int) (common.Address, error)
	ProjectDetails(ctx context.Context, projectID *big.Int) (*chain.ProjectDetails, error)
}

// Aggregator merges backend metadata with on-chain state and memoizes the result per id.
// Entries live until ClearCache.
type Aggregator struct {
	Backend *backend.Client
	Chain   ChainReader

	mu   sync.Mutex
	memo map[string]*domain.ProjectRecord
}

func NewAggregator(b *backend.Client, c ChainReader) *Aggregator {
	return &Aggregator{Backend: b, Chain: c, memo: make(map[string]*domain.ProjectRecord)}
}

// GetProject is a memo lookup only.
func (a *Aggregator) GetProject(id string) (*domain.ProjectRecord, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec, ok := a.memo[id]
	return rec, ok
}

// ClearCache empties the memo.
func (a *Aggregator) ClearCache() {
	a.mu.Lock()
	a.memo = make(map[string]*domain.ProjectRecord)
	a.mu.Unlock()
}

// FetchProject returns the memoized record or builds it. The backend read is required and
// its failure yields nil. Chain reads are best effort.
func (a *Aggregator) FetchProject(ctx context.Context, id, projectAddress string) *domain.ProjectRecord {
	if rec, ok := a.GetProject(id); ok {
		return rec
	}

	resp, err := a.Backend.Do(ctx, backend.Request{Method: http.MethodGet, Path: "/api/v1/projects/" + url.PathEscape(id)})
	if err != nil {
		log.Error().Err(err).Str("project_id", id).Msg("projects: backend metadata unavailable")
		return nil
	}
	rec, err := recordFromBackend(id, backend.Normalize(backend.ProjectGet, resp.Body))
	if err != nil {
		log.Error().Err(err).Str("project_id", id).Msg("projects: unreadable backend metadata")
		return nil
	}
	if projectAddress != "" {
		rec.ProjectAddress = projectAddress
	}

	if onChainID, ok := new(big.Int).SetString(id, 10); ok && a.Chain != nil {
		a.mergeChain(ctx, rec, onChainID)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if existing, ok := a.memo[id]; ok {
		return existing
	}
	a.memo[id] = rec
	return rec
}

func (a *Aggregator) mergeChain(ctx context.Context, rec *domain.ProjectRecord, id *big.Int) {
	if rec.ProjectAddress == "" {
		addr, err := a.Chain.ProjectAddress(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("project_id", rec.ProjectID).Msg("projects: address lookup failed")
		} else {
			rec.ProjectAddress = addr.Hex()
		}
	}

	details, err := a.Chain.ProjectDetails(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("project_id", rec.ProjectID).Msg("projects: on-chain details unavailable")
		return
	}
	rec.Admin = details.Admin
	rec.Creator = details.Creator
	rec.FundingGoal = details.FundingGoal
	rec.FundsRaised = details.FundsRaised
	rec.Status = details.Status
}

// recordFromBackend reads the backend project object leniently: numbers may arrive as JSON
// numbers or strings and a few fields have alternate names.
func recordFromBackend(id string, body []byte) (*domain.ProjectRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return &domain.ProjectRecord{
		ProjectID:      id,
		Title:          text(m, "title", "name"),
		Description:    text(m, "description"),
		Images:         texts(m, "images"),
		Location:       text(m, "location"),
		Category:       text(m, "category"),
		Admin:          text(m, "admin"),
		Creator:        text(m, "creator"),
		FundingGoal:    orZero(text(m, "fundingGoal", "goal")),
		FundsRaised:    orZero(text(m, "fundsRaised", "raised")),
		Status:         uint8(integer(m, "status")),
		DonorCount:     integer(m, "donorCount"),
		DonationCount:  integer(m, "donationCount"),
		CreatedAt:      text(m, "createdAt"),
		UpdatedAt:      text(m, "updatedAt"),
		ProjectAddress: text(m, "projectAddress", "contractAddress"),
	}, nil
}

func text(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func texts(m map[string]interface{}, key string) []string {
	out := []string{}
	raw, _ := m[key].([]interface{})
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func integer(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
