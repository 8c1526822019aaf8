package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReports struct {
	created    []models.PaymentReport
	references map[string]bool
}

func (f *fakeReports) Create(_ context.Context, r *models.PaymentReport) error {
	r.ID = uuid.New()
	f.created = append(f.created, *r)
	return nil
}

func (f *fakeReports) ReferenceExists(_ context.Context, _ models.TenantContext, reference string) (bool, error) {
	return f.references[reference], nil
}

func (f *fakeReports) Get(_ context.Context, tenant models.TenantContext, id uuid.UUID) (*models.PaymentReport, error) {
	for _, r := range f.created {
		if r.ID == id && r.CondominiumID == tenant.CondominiumID {
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeReports) List(context.Context, models.TenantContext, models.PaymentReportFilter) ([]models.PaymentReport, error) {
	return f.created, nil
}

func (f *fakeReports) Allocations(context.Context, models.TenantContext, uuid.UUID) ([]models.PaymentAllocation, error) {
	return nil, nil
}

type fakeRates struct{ rate *models.ExchangeRate }

func (f fakeRates) LatestExchangeRate(context.Context, uuid.UUID) (*models.ExchangeRate, error) {
	return f.rate, nil
}

type fakeProofStore struct {
	keys []string
	err  error
}

func (f *fakeProofStore) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "https://proofs.example.com/" + key, nil
}

func proofImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 40))))
	return buf.Bytes()
}

func TestPaymentReportService_Submit(t *testing.T) {
	tenant := models.TenantContext{CondominiumID: uuid.New(), ProfileID: uuid.New(), Role: models.RoleOwner}
	rate := &models.ExchangeRate{Rate: decimal.RequireFromString("36.25")}

	setup := func() (*PaymentReportService, *fakeReports, *fakeNotifier, *fakeProofStore, *fakeProperties) {
		reports := &fakeReports{references: map[string]bool{"DUP-0001": true}}
		notifier := &fakeNotifier{}
		proofs := &fakeProofStore{}
		properties := &fakeProperties{}
		svc := NewPaymentReportService(reports, fakeRates{rate: rate}, properties, proofs, notifier, quietLogger())
		return svc, reports, notifier, proofs, properties
	}

	validRequest := func() *models.SubmitPaymentRequest {
		return &models.SubmitPaymentRequest{
			AmountLocal: decimal.RequireFromString("2537.50"),
			Reference:   "TRX-99821",
			PaymentDate: time.Now().Add(-time.Hour),
		}
	}

	t.Run("converts at the latest rate and notifies admins", func(t *testing.T) {
		svc, reports, notifier, proofs, _ := setup()

		report, err := svc.Submit(context.Background(), tenant, validRequest(), proofImage(t))

		require.NoError(t, err)
		assert.Equal(t, models.Cents(7000), report.EquivalentUSD)
		assert.True(t, rate.Rate.Equal(report.ExchangeRate))
		assert.Equal(t, models.PaymentStatusInReview, report.Status)
		assert.Len(t, reports.created, 1)
		require.Len(t, proofs.keys, 1)
		assert.Contains(t, proofs.keys[0], tenant.CondominiumID.String()+"/")
		assert.Contains(t, report.ProofURL, ".jpg")

		require.Len(t, notifier.sent, 1)
		assert.Nil(t, notifier.sent[0].RecipientProfileID)
		assert.Equal(t, models.NotificationPaymentReported, notifier.sent[0].Kind)
	})

	t.Run("validation failures", func(t *testing.T) {
		svc, reports, _, _, _ := setup()

		zero := validRequest()
		zero.AmountLocal = decimal.Zero
		_, err := svc.Submit(context.Background(), tenant, zero, proofImage(t))
		assert.ErrorIs(t, err, ErrInvalidAmount)

		future := validRequest()
		future.PaymentDate = time.Now().Add(48 * time.Hour)
		_, err = svc.Submit(context.Background(), tenant, future, proofImage(t))
		assert.ErrorIs(t, err, ErrFuturePaymentDate)

		dup := validRequest()
		dup.Reference = "DUP-0001"
		_, err = svc.Submit(context.Background(), tenant, dup, proofImage(t))
		assert.ErrorIs(t, err, ErrDuplicateReference)

		_, err = svc.Submit(context.Background(), tenant, validRequest(), nil)
		assert.ErrorIs(t, err, ErrProofRequired)

		assert.Empty(t, reports.created)
	})

	t.Run("property must belong to the caller", func(t *testing.T) {
		svc, _, _, _, properties := setup()
		other := uuid.New()
		properties.items = append(properties.items, models.Property{ID: uuid.New(), CondominiumID: tenant.CondominiumID, OwnerProfileID: &other})

		req := validRequest()
		req.PropertyID = &properties.items[0].ID
		_, err := svc.Submit(context.Background(), tenant, req, proofImage(t))

		assert.ErrorIs(t, err, ErrPropertyNotOwned)
	})

	t.Run("no published rate", func(t *testing.T) {
		reports := &fakeReports{}
		svc := NewPaymentReportService(reports, fakeRates{}, &fakeProperties{}, &fakeProofStore{}, &fakeNotifier{}, quietLogger())

		_, err := svc.Submit(context.Background(), tenant, validRequest(), proofImage(t))

		assert.ErrorIs(t, err, ErrNoExchangeRate)
	})

	t.Run("storage failure leaves nothing behind", func(t *testing.T) {
		svc, reports, _, proofs, _ := setup()
		proofs.err = errors.New("bucket unreachable")

		_, err := svc.Submit(context.Background(), tenant, validRequest(), proofImage(t))

		assert.Error(t, err)
		assert.Empty(t, reports.created)
	})

	t.Run("failed admin notification does not fail the submission", func(t *testing.T) {
		svc, reports, notifier, _, _ := setup()
		notifier.err = errors.New("insert failed")

		_, err := svc.Submit(context.Background(), tenant, validRequest(), proofImage(t))

		require.NoError(t, err)
		assert.Len(t, reports.created, 1)
	})
}

func TestPaymentReportService_GetHidesOtherOwners(t *testing.T) {
	condo := uuid.New()
	reports := &fakeReports{}
	svc := NewPaymentReportService(reports, fakeRates{}, &fakeProperties{}, &fakeProofStore{}, &fakeNotifier{}, quietLogger())
	owner := uuid.New()
	require.NoError(t, reports.Create(context.Background(), &models.PaymentReport{CondominiumID: condo, OwnerProfileID: owner, Status: models.PaymentStatusInReview}))
	id := reports.created[0].ID

	_, err := svc.Get(context.Background(), models.TenantContext{CondominiumID: condo, ProfileID: uuid.New(), Role: models.RoleOwner}, id)
	assert.ErrorIs(t, err, ErrReportNotFound)

	got, err := svc.Get(context.Background(), models.TenantContext{CondominiumID: condo, ProfileID: uuid.New(), Role: models.RoleAdmin}, id)
	require.NoError(t, err)
	assert.Equal(t, owner, got.OwnerProfileID)

	_, err = svc.Receipt(context.Background(), models.TenantContext{CondominiumID: condo, ProfileID: owner, Role: models.RoleOwner}, id)
	assert.ErrorIs(t, err, ErrReceiptNotAvailable)
}

func TestRenderReceipt(t *testing.T) {
	report := &models.PaymentReport{
		OwnerName:     "Ana Perez",
		Reference:     "TRX-1",
		AmountLocal:   decimal.RequireFromString("2537.50"),
		ExchangeRate:  decimal.RequireFromString("36.25"),
		EquivalentUSD: 7000,
		PaymentDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	pdf, err := RenderReceipt(report, []models.PaymentAllocation{
		{Period: "January 2026", Amount: 5000, Settled: true},
		{Period: "February 2026", Amount: 2000},
	})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}
