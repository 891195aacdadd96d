package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const violationColumns = `
	id, officer_id, license_plate, vehicle_brand, vehicle_color, vehicle_type,
	occurred_at, street_name, street_number,
	driver_last_name, driver_first_name, driver_father_name, driver_tax_number,
	plates_removed, license_removed, registration_removed,
	selected_violation_ids, total_fine_cents, fine_breakdown, violation_articles,
	notes, created_at, updated_at`

// violationRepository - PostgreSQL реализация ViolationRepository
type violationRepository struct {
	db *pgxpool.Pool
}

// NewViolationRepository создает новый экземпляр violationRepository
func NewViolationRepository(db *pgxpool.Pool) repository.ViolationRepository {
	return &violationRepository{db: db}
}

func (r *violationRepository) Create(ctx context.Context, v *domain.Violation) error {
	query := `
		INSERT INTO violations (
			id, officer_id, license_plate, vehicle_brand, vehicle_color, vehicle_type,
			occurred_at, street_name, street_number,
			driver_last_name, driver_first_name, driver_father_name, driver_tax_number,
			plates_removed, license_removed, registration_removed,
			selected_violation_ids, total_fine_cents, fine_breakdown, violation_articles,
			notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $22)
	`

	breakdown, err := marshalBreakdown(v.FineBreakdown)
	if err != nil {
		return err
	}

	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt

	_, err = r.db.Exec(ctx, query,
		v.ID,
		v.OfficerID,
		v.LicensePlate,
		v.VehicleBrand,
		v.VehicleColor,
		v.VehicleType,
		v.OccurredAt,
		v.StreetName,
		v.StreetNumber,
		v.DriverLastName,
		v.DriverFirstName,
		v.DriverFatherName,
		v.DriverTaxNumber,
		v.PlatesRemoved,
		v.LicenseRemoved,
		v.RegistrationRemoved,
		nonNilIDs(v.SelectedViolationIDs),
		toCents(v.TotalFineAmount),
		breakdown,
		nonNilStrings(v.ViolationArticles),
		v.Notes,
		v.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return err
	}

	return nil
}

func (r *violationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Violation, error) {
	query := `SELECT ` + violationColumns + ` FROM violations WHERE id = $1`

	v, err := scanViolation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrViolationNotFound
		}
		return nil, err
	}

	return v, nil
}

func (r *violationRepository) List(ctx context.Context, filter domain.ViolationFilter, limit, offset int) ([]*domain.Violation, error) {
	var (
		conditions []string
		args       []interface{}
	)
	addArg := func(cond string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.From != nil {
		addArg("occurred_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		addArg("occurred_at < $%d", *filter.To)
	}
	if filter.LicensePlate != "" {
		addArg("license_plate = $%d", domain.NormalizeLicensePlate(filter.LicensePlate))
	}
	if filter.OfficerID != nil {
		addArg("officer_id = $%d", *filter.OfficerID)
	}

	query := `SELECT ` + violationColumns + ` FROM violations`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY occurred_at DESC, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	return r.query(ctx, query, args...)
}

func (r *violationRepository) UpdateFine(ctx context.Context, v *domain.Violation) error {
	query := `
		UPDATE violations
		SET total_fine_cents = $2, fine_breakdown = $3, violation_articles = $4,
			plates_removed = $5, license_removed = $6, registration_removed = $7,
			updated_at = $8
		WHERE id = $1
	`

	breakdown, err := marshalBreakdown(v.FineBreakdown)
	if err != nil {
		return err
	}

	v.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, query,
		v.ID,
		toCents(v.TotalFineAmount),
		breakdown,
		nonNilStrings(v.ViolationArticles),
		v.PlatesRemoved,
		v.LicenseRemoved,
		v.RegistrationRemoved,
		v.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrViolationNotFound
	}

	return nil
}

func (r *violationRepository) ListForRecompute(ctx context.Context, afterID uuid.UUID, limit int, onlyMissing bool) ([]*domain.Violation, error) {
	query := `
		SELECT ` + violationColumns + `
		FROM violations
		WHERE id > $1 AND (NOT $2 OR total_fine_cents IS NULL OR total_fine_cents = 0)
		ORDER BY id
		LIMIT $3
	`

	return r.query(ctx, query, afterID, onlyMissing, limit)
}

func (r *violationRepository) SummarizePeriod(ctx context.Context, from, to time.Time) (*domain.PeriodSummary, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(total_fine_cents), 0)::BIGINT,
			COUNT(*) FILTER (WHERE plates_removed),
			COUNT(*) FILTER (WHERE license_removed),
			COUNT(*) FILTER (WHERE registration_removed)
		FROM violations
		WHERE occurred_at >= $1 AND occurred_at < $2
	`

	summary := &domain.PeriodSummary{From: from, To: to}
	var totalCents int64

	err := r.db.QueryRow(ctx, query, from, to).Scan(
		&summary.ViolationCount,
		&totalCents,
		&summary.PlatesRemovedCount,
		&summary.LicenseRemovedCount,
		&summary.RegistrationRemovedCount,
	)
	if err != nil {
		return nil, err
	}

	summary.TotalFineAmount = fromCents(totalCents)

	return summary, nil
}

func (r *violationRepository) CountByType(ctx context.Context, from, to time.Time) ([]domain.TypeCount, error) {
	// Неизвестные справочнику ID тоже считаются, описание у них пустое
	query := `
		SELECT s.type_id, COALESCE(vt.description, ''), COUNT(*)
		FROM violations v
		CROSS JOIN LATERAL unnest(v.selected_violation_ids) AS s(type_id)
		LEFT JOIN violation_types vt ON vt.id = s.type_id
		WHERE v.occurred_at >= $1 AND v.occurred_at < $2
		GROUP BY s.type_id, vt.description
		ORDER BY COUNT(*) DESC, s.type_id
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]domain.TypeCount, 0)
	for rows.Next() {
		var tc domain.TypeCount
		if err := rows.Scan(&tc.ViolationTypeID, &tc.Description, &tc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, tc)
	}

	return counts, rows.Err()
}

func (r *violationRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Violation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	violations := make([]*domain.Violation, 0)
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, err
		}
		violations = append(violations, v)
	}

	return violations, rows.Err()
}

func scanViolation(row pgx.Row) (*domain.Violation, error) {
	var (
		v          domain.Violation
		totalCents *int64
		breakdown  []byte
	)

	err := row.Scan(
		&v.ID,
		&v.OfficerID,
		&v.LicensePlate,
		&v.VehicleBrand,
		&v.VehicleColor,
		&v.VehicleType,
		&v.OccurredAt,
		&v.StreetName,
		&v.StreetNumber,
		&v.DriverLastName,
		&v.DriverFirstName,
		&v.DriverFatherName,
		&v.DriverTaxNumber,
		&v.PlatesRemoved,
		&v.LicenseRemoved,
		&v.RegistrationRemoved,
		&v.SelectedViolationIDs,
		&totalCents,
		&breakdown,
		&v.ViolationArticles,
		&v.Notes,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if totalCents != nil {
		v.TotalFineAmount = fromCents(*totalCents)
	}

	// Битая расшифровка не ломает чтение: ее восстановит пересчет
	v.FineBreakdown = unmarshalBreakdown(breakdown)

	return &v, nil
}

func marshalBreakdown(items []domain.FineItem) ([]byte, error) {
	if items == nil {
		items = []domain.FineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fine breakdown: %w", err)
	}
	return data, nil
}

func unmarshalBreakdown(data []byte) []domain.FineItem {
	items := make([]domain.FineItem, 0)
	if len(data) == 0 {
		return items
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return make([]domain.FineItem, 0)
	}
	return items
}

func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func nonNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
