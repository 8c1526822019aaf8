package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrOwnerNotFound       = errors.New("owner not found")
	ErrDuplicateProperty   = errors.New("a property with this identifier already exists")
	ErrDuplicateNationalID = errors.New("an owner with this national id already exists")
)

type PropertyStore interface {
	Create(ctx context.Context, p *models.Property) error
	Get(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (*models.Property, error)
	GetByIdentifier(ctx context.Context, tenant models.TenantContext, identifier string) (*models.Property, error)
	List(ctx context.Context, tenant models.TenantContext) ([]models.Property, error)
	SetOwner(ctx context.Context, tenant models.TenantContext, id uuid.UUID, ownerID *uuid.UUID) (bool, error)
	Delete(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (bool, error)
}

type ProfileStore interface {
	Create(ctx context.Context, p *models.Profile) error
	Get(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (*models.Profile, error)
	GetByNationalID(ctx context.Context, tenant models.TenantContext, nationalID string) (*models.Profile, error)
	ListOwners(ctx context.Context, tenant models.TenantContext) ([]models.Profile, error)
	DeleteOwner(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (bool, error)
}

type DirectoryService struct {
	Properties PropertyStore
	Profiles   ProfileStore
	log        *logrus.Entry
}

func NewDirectoryService(properties PropertyStore, profiles ProfileStore, logger *logrus.Logger) *DirectoryService {
	return &DirectoryService{Properties: properties, Profiles: profiles, log: logger.WithField("module", "directory")}
}

func (s *DirectoryService) CreateProperty(ctx context.Context, tenant models.TenantContext, req *models.CreatePropertyRequest) (*models.Property, error) {
	identifier := strings.TrimSpace(req.Identifier)
	existing, err := s.Properties.GetByIdentifier(ctx, tenant, identifier)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateProperty
	}
	if req.OwnerProfileID != nil {
		if err := s.requireOwner(ctx, tenant, *req.OwnerProfileID); err != nil {
			return nil, err
		}
	}

	p := &models.Property{CondominiumID: tenant.CondominiumID, Identifier: identifier, OwnerProfileID: req.OwnerProfileID}
	if err := s.Properties.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *DirectoryService) ListProperties(ctx context.Context, tenant models.TenantContext) ([]models.Property, error) {
	return s.Properties.List(ctx, tenant)
}

// AssignOwner links a unit to an owner; a nil owner unlinks it.
func (s *DirectoryService) AssignOwner(ctx context.Context, tenant models.TenantContext, propertyID uuid.UUID, ownerID *uuid.UUID) error {
	if ownerID != nil {
		if err := s.requireOwner(ctx, tenant, *ownerID); err != nil {
			return err
		}
	}
	ok, err := s.Properties.SetOwner(ctx, tenant, propertyID, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPropertyNotFound
	}
	return nil
}

func (s *DirectoryService) DeleteProperty(ctx context.Context, tenant models.TenantContext, id uuid.UUID) error {
	ok, err := s.Properties.Delete(ctx, tenant, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPropertyNotFound
	}
	return nil
}

func (s *DirectoryService) CreateOwner(ctx context.Context, tenant models.TenantContext, req *models.CreateOwnerRequest) (*models.Profile, error) {
	nationalID := normalizeNationalID(req.NationalID)
	existing, err := s.Profiles.GetByNationalID(ctx, tenant, nationalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateNationalID
	}

	p := &models.Profile{
		CondominiumID: tenant.CondominiumID,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		NationalID:    nationalID,
		Phone:         strings.TrimSpace(req.Phone),
		Role:          models.RoleOwner,
	}
	if err := s.Profiles.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *DirectoryService) ListOwners(ctx context.Context, tenant models.TenantContext) ([]models.Profile, error) {
	return s.Profiles.ListOwners(ctx, tenant)
}

func (s *DirectoryService) DeleteOwner(ctx context.Context, tenant models.TenantContext, id uuid.UUID) error {
	ok, err := s.Profiles.DeleteOwner(ctx, tenant, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOwnerNotFound
	}
	return nil
}

// Import loads an owner directory spreadsheet. Each row finds or creates the
// unit, and when owner data is complete finds or creates the owner by
// national id and links them. Failing rows are reported, not fatal.
func (s *DirectoryService) Import(ctx context.Context, tenant models.TenantContext, r io.Reader) (*models.DirectoryImportResult, error) {
	rows, err := ParseDirectory(r)
	if err != nil {
		return nil, err
	}

	result := &models.DirectoryImportResult{}
	for _, row := range rows {
		if err := s.importRow(ctx, tenant, row, result); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", row.Line, err))
		}
	}

	s.log.WithFields(logrus.Fields{
		"condominium_id": tenant.CondominiumID,
		"rows":           len(rows),
		"skipped":        result.Skipped,
	}).Info("directory import finished")
	return result, nil
}

func (s *DirectoryService) importRow(ctx context.Context, tenant models.TenantContext, row models.DirectoryImportRow, result *models.DirectoryImportResult) error {
	if row.Identifier == "" {
		return errors.New("property identifier is required")
	}

	property, err := s.Properties.GetByIdentifier(ctx, tenant, row.Identifier)
	if err != nil {
		return err
	}
	if property == nil {
		property = &models.Property{CondominiumID: tenant.CondominiumID, Identifier: row.Identifier}
		if err := s.Properties.Create(ctx, property); err != nil {
			return err
		}
		result.PropertiesCreated++
	}

	nationalID := normalizeNationalID(row.NationalID)
	if row.FirstName == "" || nationalID == "" {
		return nil
	}

	owner, err := s.Profiles.GetByNationalID(ctx, tenant, nationalID)
	if err != nil {
		return err
	}
	if owner == nil {
		owner = &models.Profile{
			CondominiumID: tenant.CondominiumID,
			FirstName:     row.FirstName,
			LastName:      row.LastName,
			NationalID:    nationalID,
			Phone:         row.Phone,
			Role:          models.RoleOwner,
		}
		if err := s.Profiles.Create(ctx, owner); err != nil {
			return err
		}
		result.OwnersCreated++
	}

	if property.OwnerProfileID != nil && *property.OwnerProfileID == owner.ID {
		return nil
	}
	ownerID := owner.ID
	if _, err := s.Properties.SetOwner(ctx, tenant, property.ID, &ownerID); err != nil {
		return err
	}
	result.Assigned++
	return nil
}

func (s *DirectoryService) requireOwner(ctx context.Context, tenant models.TenantContext, id uuid.UUID) error {
	owner, err := s.Profiles.Get(ctx, tenant, id)
	if err != nil {
		return err
	}
	if owner == nil || owner.Role != models.RoleOwner {
		return ErrOwnerNotFound
	}
	return nil
}

func normalizeNationalID(id string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(id), " ", ""))
}
