package services

import (
	"bytes"
	"context"
	"testing"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func directoryWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	header := []interface{}{"Property", "First name", "Last name", "National ID", "Phone"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		r := row
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestDirectoryService_Import(t *testing.T) {
	tenant := models.TenantContext{CondominiumID: uuid.New(), ProfileID: uuid.New(), Role: models.RoleAdmin}
	properties := &fakeProperties{}
	profiles := &fakeProfiles{}
	svc := NewDirectoryService(properties, profiles, quietLogger())

	// GIVEN an existing unit and a sheet that reuses it, adds units and shares an owner
	require.NoError(t, properties.Create(context.Background(), &models.Property{CondominiumID: tenant.CondominiumID, Identifier: "A-1"}))
	sheet := directoryWorkbook(t, [][]interface{}{
		{"A-1", "Ana", "Perez", "v-12345678", "0414"},
		{"A-2", "Ana", "Perez", "V-12345678", "0414"},
		{"B-1", "", "", "", ""},
		{"", "Luis", "Rojas", "V-999", ""},
		{},
	})

	// WHEN it is imported
	result, err := svc.Import(context.Background(), tenant, sheet)

	// THEN units are created once, the owner is created once and linked to both
	require.NoError(t, err)
	assert.Equal(t, 2, result.PropertiesCreated)
	assert.Equal(t, 1, result.OwnersCreated)
	assert.Equal(t, 2, result.Assigned)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "line 5")

	require.Len(t, profiles.items, 1)
	assert.Equal(t, "V-12345678", profiles.items[0].NationalID)
	owned, err := properties.ListByOwner(context.Background(), tenant, profiles.items[0].ID)
	require.NoError(t, err)
	assert.Len(t, owned, 2)
}

func TestParseDirectoryRejectsEmptySheet(t *testing.T) {
	_, err := ParseDirectory(directoryWorkbook(t, nil))
	assert.ErrorIs(t, err, ErrEmptySpreadsheet)

	_, err = ParseDirectory(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}

func TestDirectoryService_Owners(t *testing.T) {
	tenant := models.TenantContext{CondominiumID: uuid.New(), ProfileID: uuid.New(), Role: models.RoleAdmin}
	properties := &fakeProperties{}
	profiles := &fakeProfiles{}
	svc := NewDirectoryService(properties, profiles, quietLogger())
	ctx := context.Background()

	owner, err := svc.CreateOwner(ctx, tenant, &models.CreateOwnerRequest{FirstName: "Ana", NationalID: "V-1000"})
	require.NoError(t, err)

	_, err = svc.CreateOwner(ctx, tenant, &models.CreateOwnerRequest{FirstName: "Otra", NationalID: "v-1000"})
	assert.ErrorIs(t, err, ErrDuplicateNationalID)

	unit, err := svc.CreateProperty(ctx, tenant, &models.CreatePropertyRequest{Identifier: "C-3"})
	require.NoError(t, err)
	_, err = svc.CreateProperty(ctx, tenant, &models.CreatePropertyRequest{Identifier: "C-3"})
	assert.ErrorIs(t, err, ErrDuplicateProperty)

	require.NoError(t, svc.AssignOwner(ctx, tenant, unit.ID, &owner.ID))
	stranger := uuid.New()
	assert.ErrorIs(t, svc.AssignOwner(ctx, tenant, unit.ID, &stranger), ErrOwnerNotFound)
	assert.ErrorIs(t, svc.AssignOwner(ctx, tenant, uuid.New(), nil), ErrPropertyNotFound)

	require.NoError(t, svc.DeleteOwner(ctx, tenant, owner.ID))
	assert.ErrorIs(t, svc.DeleteOwner(ctx, tenant, owner.ID), ErrOwnerNotFound)
}
