package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const violationTypeColumns = `
	id, code, description, article, article_paragraph,
	fine_cars_cents, fine_motorcycles_cents, fine_trucks_cents, half_fine_motorcycles,
	remove_plates, plates_removal_days,
	remove_registration, registration_removal_days,
	remove_driving_license, driving_license_removal_days,
	parking_special_provision, is_active, created_at, updated_at`

// violationTypeRepository - PostgreSQL реализация ViolationTypeRepository
type violationTypeRepository struct {
	db *pgxpool.Pool
}

// NewViolationTypeRepository создает новый экземпляр violationTypeRepository
func NewViolationTypeRepository(db *pgxpool.Pool) repository.ViolationTypeRepository {
	return &violationTypeRepository{db: db}
}

func (r *violationTypeRepository) Create(ctx context.Context, vt *domain.ViolationType) error {
	query := `
		INSERT INTO violation_types (
			code, description, article, article_paragraph,
			fine_cars_cents, fine_motorcycles_cents, fine_trucks_cents, half_fine_motorcycles,
			remove_plates, plates_removal_days,
			remove_registration, registration_removal_days,
			remove_driving_license, driving_license_removal_days,
			parking_special_provision, is_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17)
		RETURNING id
	`

	vt.CreatedAt = time.Now()
	vt.UpdatedAt = vt.CreatedAt

	return r.db.QueryRow(ctx, query,
		vt.Code,
		vt.Description,
		vt.Article,
		vt.ArticleParagraph,
		toCents(vt.FineCars),
		nullToCents(vt.FineMotorcycles),
		nullToCents(vt.FineTrucks),
		vt.HalfFineMotorcycles,
		vt.RemovePlates,
		vt.PlatesRemovalDays,
		vt.RemoveRegistration,
		vt.RegistrationRemovalDays,
		vt.RemoveDrivingLicense,
		vt.DrivingLicenseRemovalDays,
		vt.ParkingSpecialProvision,
		vt.IsActive,
		vt.CreatedAt,
	).Scan(&vt.ID)
}

func (r *violationTypeRepository) GetByID(ctx context.Context, id int64) (*domain.ViolationType, error) {
	query := `SELECT ` + violationTypeColumns + ` FROM violation_types WHERE id = $1`

	vt, err := scanViolationType(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrViolationTypeNotFound
		}
		return nil, err
	}

	return vt, nil
}

func (r *violationTypeRepository) Update(ctx context.Context, vt *domain.ViolationType) error {
	query := `
		UPDATE violation_types
		SET code = $2, description = $3, article = $4, article_paragraph = $5,
			fine_cars_cents = $6, fine_motorcycles_cents = $7, fine_trucks_cents = $8, half_fine_motorcycles = $9,
			remove_plates = $10, plates_removal_days = $11,
			remove_registration = $12, registration_removal_days = $13,
			remove_driving_license = $14, driving_license_removal_days = $15,
			parking_special_provision = $16, is_active = $17, updated_at = $18
		WHERE id = $1
	`

	vt.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, query,
		vt.ID,
		vt.Code,
		vt.Description,
		vt.Article,
		vt.ArticleParagraph,
		toCents(vt.FineCars),
		nullToCents(vt.FineMotorcycles),
		nullToCents(vt.FineTrucks),
		vt.HalfFineMotorcycles,
		vt.RemovePlates,
		vt.PlatesRemovalDays,
		vt.RemoveRegistration,
		vt.RegistrationRemovalDays,
		vt.RemoveDrivingLicense,
		vt.DrivingLicenseRemovalDays,
		vt.ParkingSpecialProvision,
		vt.IsActive,
		vt.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrViolationTypeNotFound
	}

	return nil
}

func (r *violationTypeRepository) Deactivate(ctx context.Context, id int64) error {
	query := `
		UPDATE violation_types
		SET is_active = false, updated_at = $2
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, time.Now())
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrViolationTypeNotFound
	}

	return nil
}

func (r *violationTypeRepository) List(ctx context.Context, includeInactive bool) ([]*domain.ViolationType, error) {
	query := `SELECT ` + violationTypeColumns + ` FROM violation_types WHERE is_active OR $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]*domain.ViolationType, 0)
	for rows.Next() {
		vt, err := scanViolationType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, vt)
	}

	return types, rows.Err()
}

func scanViolationType(row pgx.Row) (*domain.ViolationType, error) {
	var (
		vt              domain.ViolationType
		fineCars        int64
		fineMotorcycles *int64
		fineTrucks      *int64
	)

	err := row.Scan(
		&vt.ID,
		&vt.Code,
		&vt.Description,
		&vt.Article,
		&vt.ArticleParagraph,
		&fineCars,
		&fineMotorcycles,
		&fineTrucks,
		&vt.HalfFineMotorcycles,
		&vt.RemovePlates,
		&vt.PlatesRemovalDays,
		&vt.RemoveRegistration,
		&vt.RegistrationRemovalDays,
		&vt.RemoveDrivingLicense,
		&vt.DrivingLicenseRemovalDays,
		&vt.ParkingSpecialProvision,
		&vt.IsActive,
		&vt.CreatedAt,
		&vt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	vt.FineCars = fromCents(fineCars)
	vt.FineMotorcycles = nullFromCents(fineMotorcycles)
	vt.FineTrucks = nullFromCents(fineTrucks)

	return &vt, nil
}
