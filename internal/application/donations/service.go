package donations

import (
	"context"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"aquafund-backend/internal/domain"
	"aquafund-backend/internal/infrastructure/cache"
	"aquafund-backend/internal/pkg/apperr"

	"github.com/ethereum/go-ethereum/common"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	// FreshWindow is how long a donor list is served without touching the chain.
	FreshWindow = 30 * time.Second
	// Retention is the age after which entries are swept on the next write.
	Retention = 5 * time.Minute
	// MaxDonations caps the list returned to clients.
	MaxDonations = 50

	nativeDecimals  = 18
	defaultPoolSize = 16
)

// ChainReader is the slice of the contract gateway the donor list needs.
type ChainReader interface {
	ProjectAddress(ctx context.Context, projectID *big.Int) (common.Address, error)
	Donors(ctx context.Context, project common.Address) ([]common.Address, error)
	DonationOf(ctx context.Context, project, donor common.Address) (*big.Int, error)
}

// Service serves per-project donor lists through a cache.
type Service struct {
	Chain    ChainReader
	Store    cache.Store[[]domain.DonationRecord]
	Currency string
	PoolSize int
	Now      func() time.Time
}

// CacheKey is the store key for a project's donor list.
func CacheKey(projectID string) string {
	return "donations-" + projectID
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// GetDonations returns the project's donors sorted by amount, largest first, at most
// MaxDonations. Chain failures degrade to an empty list; only a malformed id is an error.
func (s *Service) GetDonations(ctx context.Context, projectID string, forceRefresh bool) ([]domain.DonationRecord, error) {
	projectID = strings.TrimSpace(projectID)
	id, ok := new(big.Int).SetString(projectID, 10)
	if !ok || id.Sign() < 0 {
		return nil, &apperr.ValidationError{Invalid: []string{"projectId"}}
	}
	key := CacheKey(projectID)

	if forceRefresh {
		if err := s.Store.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("donations: cache delete failed")
		}
	} else {
		entry, found, err := s.Store.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("donations: cache read failed")
		} else if found && entry.Age(s.now()) < FreshWindow {
			return entry.Data, nil
		}
	}

	records, err := s.fetch(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("project_id", projectID).Msg("donations: donor list unavailable")
		return []domain.DonationRecord{}, nil
	}

	now := s.now()
	if err := s.Store.Set(ctx, key, cache.Entry[[]domain.DonationRecord]{Data: records, Timestamp: now.UnixMilli()}); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("donations: cache write failed")
	}
	if err := s.Store.Sweep(ctx, now.Add(-Retention)); err != nil {
		log.Warn().Err(err).Msg("donations: cache sweep failed")
	}
	return records, nil
}

type donorAmount struct {
	donor common.Address
	wei   *big.Int
}

func (s *Service) fetch(ctx context.Context, projectID *big.Int) ([]domain.DonationRecord, error) {
	project, err := s.Chain.ProjectAddress(ctx, projectID)
	if err != nil {
		return nil, err
	}
	donors, err := s.Chain.Donors(ctx, project)
	if err != nil {
		return nil, err
	}

	amounts := s.readAmounts(ctx, project, donors)
	sort.Slice(amounts, func(i, j int) bool {
		if c := amounts[i].wei.Cmp(amounts[j].wei); c != 0 {
			return c > 0
		}
		return amounts[i].donor.Hex() < amounts[j].donor.Hex()
	})
	if len(amounts) > MaxDonations {
		amounts = amounts[:MaxDonations]
	}

	currency := s.Currency
	if currency == "" {
		currency = "BNB"
	}
	records := make([]domain.DonationRecord, len(amounts))
	for i, a := range amounts {
		records[i] = domain.DonationRecord{
			Donor:    a.donor.Hex(),
			Amount:   decimal.NewFromBigInt(a.wei, -nativeDecimals).String(),
			Currency: currency,
		}
	}
	return records, nil
}

// readAmounts reads every donor concurrently. A failed read or a zero amount drops that
// donor only; the others still complete.
func (s *Service) readAmounts(ctx context.Context, project common.Address, donors []common.Address) []donorAmount {
	if len(donors) == 0 {
		return nil
	}
	size := s.PoolSize
	if size <= 0 {
		size = defaultPoolSize
	}
	if size > len(donors) {
		size = len(donors)
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		log.Error().Err(err).Msg("donations: failed to create pool")
		return nil
	}
	defer pool.Release()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		out = make([]donorAmount, 0, len(donors))
	)
	for _, donor := range donors {
		donor := donor
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			wei, err := s.Chain.DonationOf(ctx, project, donor)
			if err != nil {
				log.Debug().Err(err).Str("donor", donor.Hex()).Msg("donations: donor read failed")
				return
			}
			if wei == nil || wei.Sign() <= 0 {
				return
			}
			mu.Lock()
			out = append(out, donorAmount{donor: donor, wei: wei})
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			log.Warn().Err(err).Str("donor", donor.Hex()).Msg("donations: failed to submit read")
		}
	}
	wg.Wait()
	return out
}
