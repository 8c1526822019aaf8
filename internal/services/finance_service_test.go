package services

import (
	"context"
	"errors"
	"testing"

	"condo-backend/internal/models"
	"condo-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryFinance struct {
	condo     *models.Condominium
	rates     []models.ExchangeRate
	letterURL string
}

func (m *memoryFinance) Get(context.Context, uuid.UUID) (*models.Condominium, error) {
	return m.condo, nil
}

func (m *memoryFinance) UpdateFinancialParams(_ context.Context, _ models.TenantContext, monthly models.Cents, billingDay int) error {
	m.condo.MonthlyAmount = monthly
	m.condo.BillingDay = billingDay
	return nil
}

func (m *memoryFinance) CreateExchangeRate(_ context.Context, rate *models.ExchangeRate) error {
	m.rates = append(m.rates, *rate)
	return nil
}

func (m *memoryFinance) LatestExchangeRate(context.Context, uuid.UUID) (*models.ExchangeRate, error) {
	if len(m.rates) == 0 {
		return nil, nil
	}
	return &m.rates[len(m.rates)-1], nil
}

func (m *memoryFinance) ListExchangeRates(context.Context, models.TenantContext, int) ([]models.ExchangeRate, error) {
	return m.rates, nil
}

func (m *memoryFinance) UpdateBankAccounts(_ context.Context, _ models.TenantContext, accounts []models.BankAccount) error {
	m.condo.BankAccounts = accounts
	return nil
}

func (m *memoryFinance) SetResidenceLetter(_ context.Context, _ models.TenantContext, url string) error {
	m.letterURL = url
	m.condo.ResidenceLetterURL = &url
	return nil
}

func TestFinanceService_BankAccounts(t *testing.T) {
	tenant := models.TenantContext{CondominiumID: uuid.New(), ProfileID: uuid.New(), Role: models.RoleAdmin}

	t.Run("replaces the list and assigns missing ids", func(t *testing.T) {
		store := &memoryFinance{condo: &models.Condominium{ID: tenant.CondominiumID}}
		svc := NewFinanceService(store, &fakeProofStore{})

		saved, err := svc.SetBankAccounts(context.Background(), tenant, &models.UpdateBankAccountsRequest{Accounts: []models.BankAccount{
			{ID: "keep-me", Bank: " Banco Central ", Holder: "Residencias Sol", Number: "0102-0000-11", Kind: "Mobile payment"},
			{Bank: "Banco Norte", Holder: "Residencias Sol", Number: "0134-2222"},
		}})

		require.NoError(t, err)
		require.Len(t, saved, 2)
		assert.Equal(t, "keep-me", saved[0].ID)
		assert.Equal(t, "Banco Central", saved[0].Bank)
		assert.NotEmpty(t, saved[1].ID)
		assert.Equal(t, "Transfer", saved[1].Kind)

		listed, err := svc.BankAccounts(context.Background(), tenant)
		require.NoError(t, err)
		assert.Equal(t, saved, listed)
	})

	t.Run("empty request clears the list", func(t *testing.T) {
		store := &memoryFinance{condo: &models.Condominium{ID: tenant.CondominiumID, BankAccounts: []models.BankAccount{{ID: "old"}}}}
		svc := NewFinanceService(store, &fakeProofStore{})

		_, err := svc.SetBankAccounts(context.Background(), tenant, &models.UpdateBankAccountsRequest{})
		require.NoError(t, err)

		listed, err := svc.BankAccounts(context.Background(), tenant)
		require.NoError(t, err)
		assert.Empty(t, listed)
		assert.NotNil(t, listed)
	})

	t.Run("unknown condominium", func(t *testing.T) {
		svc := NewFinanceService(&memoryFinance{}, &fakeProofStore{})

		_, err := svc.BankAccounts(context.Background(), tenant)

		assert.ErrorIs(t, err, ErrCondominiumNotFound)
	})
}

func TestFinanceService_UploadResidenceLetter(t *testing.T) {
	tenant := models.TenantContext{CondominiumID: uuid.New(), ProfileID: uuid.New(), Role: models.RoleAdmin}

	t.Run("pdf is stored under a fixed key and its url saved", func(t *testing.T) {
		store := &memoryFinance{condo: &models.Condominium{ID: tenant.CondominiumID}}
		docs := &fakeProofStore{}
		svc := NewFinanceService(store, docs)

		url, err := svc.UploadResidenceLetter(context.Background(), tenant, []byte("%PDF-1.4\n% letter"))

		require.NoError(t, err)
		key := tenant.CondominiumID.String() + "/residence-letter.pdf"
		assert.Equal(t, []string{key}, docs.keys)
		assert.Equal(t, "https://proofs.example.com/"+key, url)
		assert.Equal(t, url, store.letterURL)
	})

	t.Run("a second upload overwrites the same object", func(t *testing.T) {
		store := &memoryFinance{condo: &models.Condominium{ID: tenant.CondominiumID}}
		docs := &fakeProofStore{}
		svc := NewFinanceService(store, docs)

		_, err := svc.UploadResidenceLetter(context.Background(), tenant, proofImage(t))
		require.NoError(t, err)
		_, err = svc.UploadResidenceLetter(context.Background(), tenant, proofImage(t))
		require.NoError(t, err)

		require.Len(t, docs.keys, 2)
		assert.Equal(t, docs.keys[0], docs.keys[1])
		assert.Equal(t, tenant.CondominiumID.String()+"/residence-letter.jpg", docs.keys[0])
	})

	t.Run("empty and unsupported documents are refused", func(t *testing.T) {
		store := &memoryFinance{condo: &models.Condominium{ID: tenant.CondominiumID}}
		svc := NewFinanceService(store, &fakeProofStore{})

		_, err := svc.UploadResidenceLetter(context.Background(), tenant, nil)
		assert.ErrorIs(t, err, ErrDocumentRequired)

		_, err = svc.UploadResidenceLetter(context.Background(), tenant, []byte("just text"))
		assert.ErrorIs(t, err, storage.ErrUnsupportedType)
		assert.Empty(t, store.letterURL)
	})

	t.Run("storage failure leaves the condominium untouched", func(t *testing.T) {
		store := &memoryFinance{condo: &models.Condominium{ID: tenant.CondominiumID}}
		svc := NewFinanceService(store, &fakeProofStore{err: errors.New("bucket offline")})

		_, err := svc.UploadResidenceLetter(context.Background(), tenant, []byte("%PDF-1.4\n"))

		assert.Error(t, err)
		assert.Nil(t, store.condo.ResidenceLetterURL)
	})
}

func TestFinanceService_PublishRate(t *testing.T) {
	tenant := models.TenantContext{CondominiumID: uuid.New(), Role: models.RoleAdmin}
	store := &memoryFinance{condo: &models.Condominium{ID: tenant.CondominiumID}}
	svc := NewFinanceService(store, nil)

	_, err := svc.LatestRate(context.Background(), tenant)
	assert.ErrorIs(t, err, ErrNoExchangeRate)

	_, err = svc.PublishRate(context.Background(), tenant, &models.CreateExchangeRateRequest{Rate: decimal.Zero})
	assert.ErrorIs(t, err, models.ErrInvalidRate)

	rate, err := svc.PublishRate(context.Background(), tenant, &models.CreateExchangeRateRequest{Rate: decimal.RequireFromString("36.5")})
	require.NoError(t, err)
	assert.Equal(t, "manual", rate.Source)

	latest, err := svc.LatestRate(context.Background(), tenant)
	require.NoError(t, err)
	assert.True(t, latest.Rate.Equal(decimal.RequireFromString("36.5")))
}
