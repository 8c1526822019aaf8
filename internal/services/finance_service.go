package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"condo-backend/internal/models"
	"condo-backend/internal/storage"

	"github.com/google/uuid"
)

var (
	ErrCondominiumNotFound = errors.New("condominium not found")
	ErrDocumentRequired    = errors.New("a document file is required")
)

type FinanceStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Condominium, error)
	UpdateFinancialParams(ctx context.Context, tenant models.TenantContext, monthly models.Cents, billingDay int) error
	CreateExchangeRate(ctx context.Context, rate *models.ExchangeRate) error
	LatestExchangeRate(ctx context.Context, condominiumID uuid.UUID) (*models.ExchangeRate, error)
	ListExchangeRates(ctx context.Context, tenant models.TenantContext, limit int) ([]models.ExchangeRate, error)
	UpdateBankAccounts(ctx context.Context, tenant models.TenantContext, accounts []models.BankAccount) error
	SetResidenceLetter(ctx context.Context, tenant models.TenantContext, url string) error
}

// FinanceService manages the condominium's billing parameters, the
// published local-currency exchange rate and the settings owners rely on
// when paying: bank accounts and the residence letter.
type FinanceService struct {
	Repo      FinanceStore
	Documents ProofStore
}

func NewFinanceService(repo FinanceStore, documents ProofStore) *FinanceService {
	return &FinanceService{Repo: repo, Documents: documents}
}

func (s *FinanceService) Condominium(ctx context.Context, tenant models.TenantContext) (*models.Condominium, error) {
	return s.Repo.Get(ctx, tenant.CondominiumID)
}

func (s *FinanceService) UpdateParams(ctx context.Context, tenant models.TenantContext, req *models.UpdateFinancialParamsRequest) error {
	return s.Repo.UpdateFinancialParams(ctx, tenant, req.MonthlyAmount, req.BillingDay)
}

func (s *FinanceService) PublishRate(ctx context.Context, tenant models.TenantContext, req *models.CreateExchangeRateRequest) (*models.ExchangeRate, error) {
	if !req.Rate.IsPositive() {
		return nil, models.ErrInvalidRate
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = "manual"
	}
	rate := &models.ExchangeRate{CondominiumID: tenant.CondominiumID, Rate: req.Rate, Source: source}
	if err := s.Repo.CreateExchangeRate(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

func (s *FinanceService) LatestRate(ctx context.Context, tenant models.TenantContext) (*models.ExchangeRate, error) {
	rate, err := s.Repo.LatestExchangeRate(ctx, tenant.CondominiumID)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, ErrNoExchangeRate
	}
	return rate, nil
}

func (s *FinanceService) RateHistory(ctx context.Context, tenant models.TenantContext) ([]models.ExchangeRate, error) {
	return s.Repo.ListExchangeRates(ctx, tenant, 30)
}

func (s *FinanceService) BankAccounts(ctx context.Context, tenant models.TenantContext) ([]models.BankAccount, error) {
	condo, err := s.Repo.Get(ctx, tenant.CondominiumID)
	if err != nil {
		return nil, err
	}
	if condo == nil {
		return nil, ErrCondominiumNotFound
	}
	if condo.BankAccounts == nil {
		return []models.BankAccount{}, nil
	}
	return condo.BankAccounts, nil
}

// SetBankAccounts replaces the account list. Accounts without an id get one,
// so clients can remove a single entry and send the rest back.
func (s *FinanceService) SetBankAccounts(ctx context.Context, tenant models.TenantContext, req *models.UpdateBankAccountsRequest) ([]models.BankAccount, error) {
	accounts := make([]models.BankAccount, 0, len(req.Accounts))
	for _, a := range req.Accounts {
		a.Bank = strings.TrimSpace(a.Bank)
		a.Holder = strings.TrimSpace(a.Holder)
		a.Number = strings.TrimSpace(a.Number)
		a.Kind = strings.TrimSpace(a.Kind)
		if a.Kind == "" {
			a.Kind = "Transfer"
		}
		if strings.TrimSpace(a.ID) == "" {
			a.ID = uuid.NewString()
		}
		accounts = append(accounts, a)
	}
	if err := s.Repo.UpdateBankAccounts(ctx, tenant, accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// UploadResidenceLetter stores the condominium's single residence letter,
// overwriting the previous one, and records its URL.
func (s *FinanceService) UploadResidenceLetter(ctx context.Context, tenant models.TenantContext, document []byte) (string, error) {
	if len(document) == 0 {
		return "", ErrDocumentRequired
	}
	data, contentType, ext, err := storage.PrepareProof(document)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/residence-letter%s", tenant.CondominiumID, ext)
	url, err := s.Documents.Put(ctx, key, data, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store residence letter: %w", err)
	}
	if err := s.Repo.SetResidenceLetter(ctx, tenant, url); err != nil {
		return "", err
	}
	return url, nil
}
