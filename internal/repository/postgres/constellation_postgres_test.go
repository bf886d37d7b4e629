package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"constellationapi/internal/model"
	"constellationapi/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordColumns = []string{"ref", "data", "created_at"}

func TestConstellationPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewConstellationPostgres(db, "constellations")
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO records").
			WithArgs("constellations", `{"shape":"M13,20 L45,67"}`).
			WillReturnRows(sqlmock.NewRows(recordColumns).
				AddRow("0b7e7c1c-7d1f-4c59-9a39-2f4b8f0f7c11", `{"shape": "M13,20 L45,67"}`, now))

		rec, err := repo.Create(ctx, model.ConstellationData{Shape: "M13,20 L45,67"})

		assert.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "0b7e7c1c-7d1f-4c59-9a39-2f4b8f0f7c11", rec.Ref)
		assert.Equal(t, "M13,20 L45,67", rec.Data.Shape)
		assert.Equal(t, now, rec.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty shape is stored as is", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO records").
			WithArgs("constellations", `{"shape":""}`).
			WillReturnRows(sqlmock.NewRows(recordColumns).
				AddRow("5f0c3e51-5f61-4a39-8d7a-1d3c0b1f2e22", `{"shape": ""}`, now))

		rec, err := repo.Create(ctx, model.ConstellationData{})

		assert.NoError(t, err)
		assert.Equal(t, "", rec.Data.Shape)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO records").
			WillReturnError(errors.New("insert failed"))

		rec, err := repo.Create(ctx, model.ConstellationData{Shape: "x"})

		assert.EqualError(t, err, "insert failed")
		assert.Nil(t, rec)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO records").
			WillReturnRows(sqlmock.NewRows(recordColumns).
				AddRow("5f0c3e51-5f61-4a39-8d7a-1d3c0b1f2e22", `not json`, now))

		_, err := repo.Create(ctx, model.ConstellationData{Shape: "x"})

		assert.ErrorContains(t, err, "decode data of 5f0c3e51-5f61-4a39-8d7a-1d3c0b1f2e22")
	})
}

func TestConstellationPostgres_FindByRef(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewConstellationPostgres(db, "constellations")
	ctx := context.Background()
	ref := "0b7e7c1c-7d1f-4c59-9a39-2f4b8f0f7c11"

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM records WHERE ref = (.+) AND collection = (.+)").
			WithArgs(ref, "constellations").
			WillReturnRows(sqlmock.NewRows(recordColumns).AddRow(ref, `{"shape":"M1,1"}`, time.Now()))

		rec, err := repo.FindByRef(ctx, ref)

		assert.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, ref, rec.Ref)
		assert.Equal(t, "M1,1", rec.Data.Shape)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM records").
			WithArgs(ref, "constellations").
			WillReturnRows(sqlmock.NewRows(recordColumns))

		rec, err := repo.FindByRef(ctx, ref)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, rec)
	})

	t.Run("non uuid ref skips the query", func(t *testing.T) {
		rec, err := repo.FindByRef(ctx, "nonexistent-ref")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, rec)
	})

	t.Run("urn ref is queried in canonical form", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM records").
			WithArgs(ref, "constellations").
			WillReturnRows(sqlmock.NewRows(recordColumns).AddRow(ref, `{"shape":"M2,2"}`, time.Now()))

		rec, err := repo.FindByRef(ctx, "urn:uuid:"+ref)

		assert.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, ref, rec.Ref)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM records").
			WithArgs(ref, "constellations").
			WillReturnError(errors.New("connection reset"))

		rec, err := repo.FindByRef(ctx, ref)

		assert.EqualError(t, err, "connection reset")
		assert.False(t, errors.Is(err, repository.ErrNotFound))
		assert.Nil(t, rec)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConstellationPostgres_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	repo := NewConstellationPostgres(db, "constellations")

	mock.ExpectPing()
	assert.NoError(t, repo.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.EqualError(t, repo.Ping(context.Background()), "down")
}
