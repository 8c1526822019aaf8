package services

import (
	"context"
	"io"
	"time"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeNotifier struct {
	sent []models.Notification
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, n models.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

type fakeProperties struct {
	items []models.Property
}

func (f *fakeProperties) Create(_ context.Context, p *models.Property) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	f.items = append(f.items, *p)
	return nil
}

func (f *fakeProperties) Get(_ context.Context, tenant models.TenantContext, id uuid.UUID) (*models.Property, error) {
	for _, p := range f.items {
		if p.ID == id && p.CondominiumID == tenant.CondominiumID {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProperties) GetByIdentifier(_ context.Context, tenant models.TenantContext, identifier string) (*models.Property, error) {
	for _, p := range f.items {
		if p.Identifier == identifier && p.CondominiumID == tenant.CondominiumID {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProperties) List(_ context.Context, tenant models.TenantContext) ([]models.Property, error) {
	var out []models.Property
	for _, p := range f.items {
		if p.CondominiumID == tenant.CondominiumID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProperties) ListByOwner(_ context.Context, tenant models.TenantContext, ownerID uuid.UUID) ([]models.Property, error) {
	var out []models.Property
	for _, p := range f.items {
		if p.CondominiumID == tenant.CondominiumID && p.OwnerProfileID != nil && *p.OwnerProfileID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProperties) SetOwner(_ context.Context, tenant models.TenantContext, id uuid.UUID, ownerID *uuid.UUID) (bool, error) {
	for i, p := range f.items {
		if p.ID == id && p.CondominiumID == tenant.CondominiumID {
			f.items[i].OwnerProfileID = ownerID
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProperties) Delete(_ context.Context, tenant models.TenantContext, id uuid.UUID) (bool, error) {
	for i, p := range f.items {
		if p.ID == id && p.CondominiumID == tenant.CondominiumID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeProfiles struct {
	items []models.Profile
}

func (f *fakeProfiles) Create(_ context.Context, p *models.Profile) error {
	p.ID = uuid.New()
	f.items = append(f.items, *p)
	return nil
}

func (f *fakeProfiles) Get(_ context.Context, tenant models.TenantContext, id uuid.UUID) (*models.Profile, error) {
	for _, p := range f.items {
		if p.ID == id && p.CondominiumID == tenant.CondominiumID {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProfiles) GetByNationalID(_ context.Context, tenant models.TenantContext, nationalID string) (*models.Profile, error) {
	for _, p := range f.items {
		if p.NationalID == nationalID && p.CondominiumID == tenant.CondominiumID {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProfiles) ListOwners(_ context.Context, tenant models.TenantContext) ([]models.Profile, error) {
	var out []models.Profile
	for _, p := range f.items {
		if p.CondominiumID == tenant.CondominiumID && p.Role == models.RoleOwner {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProfiles) DeleteOwner(_ context.Context, tenant models.TenantContext, id uuid.UUID) (bool, error) {
	for i, p := range f.items {
		if p.ID == id && p.CondominiumID == tenant.CondominiumID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProfiles) FindOwnersByNationalID(_ context.Context, nationalID string) ([]models.Profile, error) {
	var out []models.Profile
	for _, p := range f.items {
		if p.NationalID == nationalID && p.Role == models.RoleOwner {
			out = append(out, p)
		}
	}
	return out, nil
}
