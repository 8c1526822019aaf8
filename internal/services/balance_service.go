package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"condo-backend/internal/cache"
	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrOwnerNotRegistered = errors.New("no owner is registered with this national id")
	ErrNoOwnedProperties  = errors.New("no properties are linked to this national id")
)

type OwnerLookup interface {
	FindOwnersByNationalID(ctx context.Context, nationalID string) ([]models.Profile, error)
}

type BalanceStore interface {
	CountPropertiesByOwners(ctx context.Context, ownerIDs []uuid.UUID) (int, error)
	OpenBalancesByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]models.PropertyBalance, error)
	Receivables(ctx context.Context, tenant models.TenantContext) ([]models.ReceivableRow, error)
}

// BalanceService answers debt questions: the public per-owner lookup and the
// admin receivables report. Both are cached in redis when available.
type BalanceService struct {
	Owners OwnerLookup
	Ledger BalanceStore
	Rates  ExchangeRateSource
	log    *logrus.Entry
}

func NewBalanceService(owners OwnerLookup, ledger BalanceStore, rates ExchangeRateSource, logger *logrus.Logger) *BalanceService {
	return &BalanceService{Owners: owners, Ledger: ledger, Rates: rates, log: logger.WithField("module", "balances")}
}

// Lookup returns every unit with open debt owned by the national id, across
// condominiums, with the local-currency equivalent at each one's latest rate.
func (s *BalanceService) Lookup(ctx context.Context, nationalID string) (*models.BalanceLookup, error) {
	nationalID = normalizeNationalID(nationalID)
	key := cache.LookupKey(nationalID)
	if data, ok := cache.GetCached(ctx, key); ok {
		var cached models.BalanceLookup
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	owners, err := s.Owners.FindOwnersByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	if len(owners) == 0 {
		return nil, ErrOwnerNotRegistered
	}

	ids := make([]uuid.UUID, len(owners))
	for i, o := range owners {
		ids[i] = o.ID
	}
	owned, err := s.Ledger.CountPropertiesByOwners(ctx, ids)
	if err != nil {
		return nil, err
	}
	if owned == 0 {
		return nil, ErrNoOwnedProperties
	}

	balances, err := s.Ledger.OpenBalancesByOwners(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &models.BalanceLookup{
		OwnerName:      strings.TrimSpace(owners[0].FullName()),
		Properties:     []models.PropertyBalance{},
		TotalOwedLocal: decimal.Zero,
	}
	rates := map[uuid.UUID]decimal.Decimal{}
	for _, b := range balances {
		rate, ok := rates[b.CondominiumID]
		if !ok {
			latest, err := s.Rates.LatestExchangeRate(ctx, b.CondominiumID)
			if err != nil {
				return nil, err
			}
			if latest != nil {
				rate = latest.Rate
			}
			rates[b.CondominiumID] = rate
		}
		b.Rate = rate
		b.OwedLocal = b.Owed.Decimal().Mul(rate).Round(2)
		result.Properties = append(result.Properties, b)
		result.TotalOwed += b.Owed
		result.TotalOwedLocal = result.TotalOwedLocal.Add(b.OwedLocal)
	}

	if data, err := json.Marshal(result); err == nil {
		cache.SetCached(ctx, key, data, cache.LookupTTL)
	}
	return result, nil
}

func (s *BalanceService) Receivables(ctx context.Context, tenant models.TenantContext) ([]models.ReceivableRow, error) {
	key := cache.ReceivablesKey(tenant.CondominiumID)
	if data, ok := cache.GetCached(ctx, key); ok {
		var cached []models.ReceivableRow
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	rows, err := s.Ledger.Receivables(ctx, tenant)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.ReceivableRow{}
	}

	if data, err := json.Marshal(rows); err == nil {
		cache.SetCached(ctx, key, data, cache.LookupTTL)
	}
	return rows, nil
}

func (s *BalanceService) ReceivablesWorkbook(ctx context.Context, tenant models.TenantContext) ([]byte, error) {
	rows, err := s.Receivables(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return ExportReceivables(rows)
}
