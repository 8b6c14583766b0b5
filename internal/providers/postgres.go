// internal/providers/postgres.go
package providers

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"carematch/internal/common/errors"
	"carematch/internal/models"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

const providerColumns = `id, name, address, contact, description, has_infirmary, has_emergency, hospital_coop, rehab_equip_count, care_grade, special_diet, barrier_free_score, safety_facilities, activity_freq, psych_support, location_type, public_transport, shuttle_service, service_types, price, created_at`

// PostgresStore keeps providers in the providers table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetCandidateProviders(ctx context.Context, q CandidateQuery) ([]models.ProviderProfile, error) {
	var (
		conds []string
		args  []interface{}
	)
	if q.ServiceType != "" {
		args = append(args, string(q.ServiceType))
		conds = append(conds, fmt.Sprintf("$%d = ANY(service_types)", len(args)))
	}
	if q.MaxBudget != nil {
		args = append(args, *q.MaxBudget)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}

	query := "SELECT " + providerColumns + " FROM providers"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at, id"

	return s.queryProviders(ctx, "candidates", query, args...)
}

func (s *PostgresStore) ListProviders(ctx context.Context, skip, limit int) ([]models.ProviderProfile, error) {
	if limit <= 0 {
		return []models.ProviderProfile{}, nil
	}
	query := "SELECT " + providerColumns + " FROM providers ORDER BY created_at, id OFFSET $1 LIMIT $2"
	return s.queryProviders(ctx, "list", query, skip, limit)
}

func (s *PostgresStore) GetProvider(ctx context.Context, id string) (models.ProviderProfile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+providerColumns+" FROM providers WHERE id = $1", id)
	p, err := scanProvider(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return models.ProviderProfile{}, errors.NewProviderNotFoundError(id)
	}
	if err != nil {
		return models.ProviderProfile{}, errors.NewProviderStoreFailedError("get", err)
	}
	return p, nil
}

func (s *PostgresStore) CreateProvider(ctx context.Context, p models.ProviderProfile) (models.ProviderProfile, error) {
	p = assignIdentity(p, time.Now())

	serviceTypes := make([]string, len(p.ServiceTypes))
	for i, st := range p.ServiceTypes {
		serviceTypes[i] = string(st)
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO providers ("+providerColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)",
		p.ID, p.Name, p.Address, p.Contact, p.Description,
		p.HasInfirmary, p.HasEmergency, p.HospitalCoop, p.RehabEquipCount,
		string(p.CareGrade), p.SpecialDiet, p.BarrierFreeScore, p.SafetyFacilities,
		string(p.ActivityFreq), p.PsychSupport,
		string(p.LocationType), p.PublicTransport, p.ShuttleService,
		pq.Array(serviceTypes), p.Price, p.CreatedAt,
	)
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return models.ProviderProfile{}, errors.NewBusinessRuleError("Provider already exists", "providerId: "+p.ID)
	}
	if err != nil {
		return models.ProviderProfile{}, errors.NewProviderStoreFailedError("create", errors.NewDatabaseInsertFailedError(err))
	}
	return p, nil
}

func (s *PostgresStore) CountProviders(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM providers").Scan(&n); err != nil {
		return 0, errors.NewProviderStoreFailedError("count", err)
	}
	return n, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) queryProviders(ctx context.Context, op, query string, args ...interface{}) ([]models.ProviderProfile, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewProviderStoreFailedError(op, errors.NewQueryExecutionFailedError(op, err))
	}
	defer rows.Close()

	out := make([]models.ProviderProfile, 0)
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, errors.NewProviderStoreFailedError(op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewProviderStoreFailedError(op, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProvider(row rowScanner) (models.ProviderProfile, error) {
	var (
		p                                    models.ProviderProfile
		careGrade, activityFreq, locationType string
		serviceTypes                         []string
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Address, &p.Contact, &p.Description,
		&p.HasInfirmary, &p.HasEmergency, &p.HospitalCoop, &p.RehabEquipCount,
		&careGrade, &p.SpecialDiet, &p.BarrierFreeScore, &p.SafetyFacilities,
		&activityFreq, &p.PsychSupport,
		&locationType, &p.PublicTransport, &p.ShuttleService,
		pq.Array(&serviceTypes), &p.Price, &p.CreatedAt,
	)
	if err != nil {
		return models.ProviderProfile{}, err
	}

	p.CareGrade = models.CareGrade(careGrade)
	p.ActivityFreq = models.ActivityFreq(activityFreq)
	p.LocationType = models.LocationType(locationType)
	p.ServiceTypes = make([]models.ServiceType, len(serviceTypes))
	for i, st := range serviceTypes {
		p.ServiceTypes[i] = models.ServiceType(st)
	}
	return p, nil
}
