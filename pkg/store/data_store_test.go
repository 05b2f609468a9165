package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/nillion-vault/vault-engine/pkg/apperrors"
	"github.com/nillion-vault/vault-engine/pkg/models"
)

func newDataStore(t *testing.T) *DataStore {
	t.Helper()
	return NewDataStore(NewMemoryKV(), zaptest.NewLogger(t))
}

func TestCreate_FillsDefaults(t *testing.T) {
	s := newDataStore(t)

	record, err := s.Create(models.DataRecord{Name: "Note", Content: "hello"})

	assert.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, models.DataTypeGeneral, record.Type)
	assert.False(t, record.CreatedAt.IsZero())
	assert.False(t, record.ModifiedAt.IsZero())
}

func TestCreate_RequiresName(t *testing.T) {
	s := newDataStore(t)

	_, err := s.Create(models.DataRecord{Content: "orphan"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = s.Create(models.DataRecord{Name: "   ", Content: "blank"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	records, err := s.List("")
	assert.NoError(t, err)
	assert.Empty(t, records, "failed create must not mutate the store")
}

func TestGet(t *testing.T) {
	s := newDataStore(t)
	created, err := s.Create(models.DataRecord{Name: "Note", Content: "hello"})
	assert.NoError(t, err)

	got, err := s.Get(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "hello", got.Content)

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	s := newDataStore(t)
	created, err := s.Create(models.DataRecord{Name: "Note", Content: "before"})
	assert.NoError(t, err)

	updated, err := s.Update(created.ID, "after")
	assert.NoError(t, err)
	assert.Equal(t, "after", updated.Content)
	assert.True(t, !updated.ModifiedAt.Before(created.ModifiedAt))

	_, err = s.Update("missing", "x")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := newDataStore(t)
	created, err := s.Create(models.DataRecord{Name: "Note"})
	assert.NoError(t, err)

	assert.NoError(t, s.Delete(created.ID))

	_, err = s.Get(created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, s.Delete(created.ID), apperrors.ErrNotFound)
}

func TestList_InsertionOrderAndFilter(t *testing.T) {
	s := newDataStore(t)
	for _, r := range []models.DataRecord{
		{Name: "First", Type: models.DataTypeText},
		{Name: "Second", Type: models.DataTypePDF},
		{Name: "Third", Type: models.DataTypeText},
	} {
		_, err := s.Create(r)
		assert.NoError(t, err)
	}

	all, err := s.List("")
	assert.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "First", all[0].Name)
	assert.Equal(t, "Second", all[1].Name)
	assert.Equal(t, "Third", all[2].Name)

	pdfs, err := s.List(models.DataTypePDF)
	assert.NoError(t, err)
	assert.Len(t, pdfs, 1)
	assert.Equal(t, "Second", pdfs[0].Name)
}

func TestSeedSampleData(t *testing.T) {
	s := newDataStore(t)

	created, err := s.SeedSampleData()
	assert.NoError(t, err)
	assert.Len(t, created, 5)

	names := make([]string, 0, len(created))
	for _, r := range created {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"Personal Information",
		"Email Contact",
		"Phone Number",
		"Home Address",
		"Resume Document",
	}, names)

	// The resume sample carries file metadata for upload autofill.
	resume := created[4]
	assert.Equal(t, models.DataTypePDF, resume.Type)
	if assert.NotNil(t, resume.FileInfo) {
		assert.Equal(t, "John_Doe_Resume.pdf", resume.FileInfo.Name)
		assert.Equal(t, "application/pdf", resume.FileInfo.MimeType)
	}
}
