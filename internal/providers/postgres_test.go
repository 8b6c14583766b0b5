// internal/providers/postgres_test.go
package providers

import (
	"context"
	"database/sql"
	stderrors "errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"carematch/internal/common/errors"
	"carematch/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columnNames = []string{
	"id", "name", "address", "contact", "description",
	"has_infirmary", "has_emergency", "hospital_coop", "rehab_equip_count",
	"care_grade", "special_diet", "barrier_free_score", "safety_facilities",
	"activity_freq", "psych_support",
	"location_type", "public_transport", "shuttle_service",
	"service_types", "price", "created_at",
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

func addProviderRow(rows *sqlmock.Rows, id, name string, price float64, serviceTypes string, created time.Time) *sqlmock.Rows {
	return rows.AddRow(
		id, name, "1 Elm St", "555-0100", "",
		true, true, false, 2,
		"full_care", true, 4, true,
		"daily", false,
		"center", true, false,
		serviceTypes, price, created,
	)
}

func TestPostgresStore_GetCandidateProviders_PushesFiltersDown(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := addProviderRow(sqlmock.NewRows(columnNames), "a1", "Home A", 4000, "{long_term,day_care}", created)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT " + providerColumns + " FROM providers WHERE $1 = ANY(service_types) AND price <= $2 ORDER BY created_at, id",
	)).WithArgs("long_term", 5000.0).WillReturnRows(rows)

	budget := 5000.0
	got, err := store.GetCandidateProviders(context.Background(), CandidateQuery{
		ServiceType: models.ServiceLongTerm,
		MaxBudget:   &budget,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	p := got[0]
	assert.Equal(t, "a1", p.ID)
	assert.Equal(t, models.CareGradeFull, p.CareGrade)
	assert.Equal(t, models.ActivityDaily, p.ActivityFreq)
	assert.Equal(t, models.LocationCenter, p.LocationType)
	assert.Equal(t, []models.ServiceType{models.ServiceLongTerm, models.ServiceDayCare}, p.ServiceTypes)
	assert.True(t, p.HasEmergency)
	assert.True(t, p.PublicTransport)
	assert.Equal(t, 4, p.BarrierFreeScore)
	assert.Equal(t, created, p.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCandidateProviders_NoFilters(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT " + providerColumns + " FROM providers ORDER BY created_at, id",
	)).WillReturnRows(sqlmock.NewRows(columnNames))

	got, err := store.GetCandidateProviders(context.Background(), CandidateQuery{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_QueryFailureIsRetryable(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT").WillReturnError(stderrors.New("connection reset by peer"))

	_, err := store.GetCandidateProviders(context.Background(), CandidateQuery{})
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeProviderStoreFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestPostgresStore_ListProviders(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Now().UTC()

	rows := sqlmock.NewRows(columnNames)
	addProviderRow(rows, "a1", "Home A", 4000, "{long_term}", created)
	addProviderRow(rows, "b2", "Home B", 3000, "{short_term}", created)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT " + providerColumns + " FROM providers ORDER BY created_at, id OFFSET $1 LIMIT $2",
	)).WithArgs(10, 2).WillReturnRows(rows)

	got, err := store.ListProviders(context.Background(), 10, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b2", got[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListProviders_ZeroLimit(t *testing.T) {
	store, mock := newMockStore(t)

	got, err := store.ListProviders(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetProvider(t *testing.T) {
	store, mock := newMockStore(t)
	query := regexp.QuoteMeta("SELECT " + providerColumns + " FROM providers WHERE id = $1")

	mock.ExpectQuery(query).WithArgs("a1").
		WillReturnRows(addProviderRow(sqlmock.NewRows(columnNames), "a1", "Home A", 4000, "{long_term}", time.Now()))
	p, err := store.GetProvider(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Home A", p.Name)

	mock.ExpectQuery(query).WithArgs("missing").WillReturnError(sql.ErrNoRows)
	_, err = store.GetProvider(context.Background(), "missing")
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeProviderNotFound, stdErr.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateProvider_AssignsIdentity(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO providers (" + providerColumns + ")")).
		WithArgs(
			sqlmock.AnyArg(), "Home C", "", "", "",
			false, false, true, 0,
			"self_care", false, 3, false,
			"weekly", true,
			"suburb", false, true,
			sqlmock.AnyArg(), 2500.0, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p, err := store.CreateProvider(context.Background(), models.ProviderProfile{
		Name:             "Home C",
		HospitalCoop:     true,
		CareGrade:        models.CareGradeSelf,
		BarrierFreeScore: 3,
		ActivityFreq:     models.ActivityWeekly,
		PsychSupport:     true,
		LocationType:     models.LocationSuburb,
		ShuttleService:   true,
		ServiceTypes:     []models.ServiceType{models.ServiceShortTerm},
		Price:            2500,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateProvider_DuplicateIsConflict(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO providers (" + providerColumns + ")")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := store.CreateProvider(context.Background(), models.ProviderProfile{ID: "dup", Name: "Home A"})
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeBusinessRule, stdErr.Code)
	assert.Equal(t, http.StatusConflict, errors.HTTPStatus(err))
	assert.False(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Details, "dup")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CountProviders(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM providers")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := store.CountProviders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}
