package pgsql

import (
	"context"
	"errors"

	"github.com/casafin/boarding_ledger_app/internal/apperrors"
	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	portsrepo "github.com/casafin/boarding_ledger_app/internal/core/ports/repositories"
	"github.com/casafin/boarding_ledger_app/internal/models"
	"github.com/casafin/boarding_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const subLedgerColumns = `student_id, enrollment_id, boarding_house_id, status, balance_minor, expected_end_date, created_at, created_by, last_updated_at, last_updated_by`

type PgxSubLedgerRepository struct {
	BaseRepository
}

// newPgxSubLedgerRepository creates a new repository for student sub-ledger data.
func newPgxSubLedgerRepository(pool *pgxpool.Pool) portsrepo.SubLedgerRepositoryFacade {
	return &PgxSubLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SubLedgerRepositoryFacade = (*PgxSubLedgerRepository)(nil)

func scanSubLedger(row pgx.Row) (models.StudentSubLedger, error) {
	var m models.StudentSubLedger
	err := row.Scan(
		&m.StudentID,
		&m.EnrollmentID,
		&m.BoardingHouseID,
		&m.Status,
		&m.BalanceMinor,
		&m.ExpectedEndDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// UpsertSubLedger creates or updates a (student, enrollment) row from the
// enrollment status feed. The balance is written only on insert; on conflict
// the feed updates status and metadata and leaves the balance alone, because
// only posted transactions move it.
func (r *PgxSubLedgerRepository) UpsertSubLedger(ctx context.Context, balance domain.StudentSubLedgerBalance) error {
	m := mapping.ToModelStudentSubLedger(balance)

	query := `
		INSERT INTO student_subledger (` + subLedgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (student_id, enrollment_id) DO UPDATE
		SET boarding_house_id = EXCLUDED.boarding_house_id,
		    status = EXCLUDED.status,
		    expected_end_date = EXCLUDED.expected_end_date,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.StudentID,
		m.EnrollmentID,
		m.BoardingHouseID,
		m.Status,
		m.BalanceMinor,
		m.ExpectedEndDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert sub-ledger row for student "+m.StudentID, err)
	}
	return nil
}

// FindSubLedger retrieves one (student, enrollment) row.
func (r *PgxSubLedgerRepository) FindSubLedger(ctx context.Context, studentID, enrollmentID string) (*domain.StudentSubLedgerBalance, error) {
	query := `SELECT ` + subLedgerColumns + ` FROM student_subledger WHERE student_id = $1 AND enrollment_id = $2;`

	m, err := scanSubLedger(r.Pool.QueryRow(ctx, query, studentID, enrollmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find sub-ledger row for student "+studentID, err)
	}

	balance := mapping.ToDomainStudentSubLedger(m)
	return &balance, nil
}

// ListSubLedgerBalances retrieves sub-ledger rows, restricted to active
// enrollments when onlyActive is set.
func (r *PgxSubLedgerRepository) ListSubLedgerBalances(ctx context.Context, onlyActive bool) ([]domain.StudentSubLedgerBalance, error) {
	query := `SELECT ` + subLedgerColumns + ` FROM student_subledger WHERE (NOT $1 OR status = 'ACTIVE') ORDER BY student_id, enrollment_id;`

	rows, err := r.Pool.Query(ctx, query, onlyActive)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query sub-ledger rows", err)
	}
	defer rows.Close()

	var balances []domain.StudentSubLedgerBalance
	for rows.Next() {
		m, err := scanSubLedger(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan sub-ledger row", err)
		}
		balances = append(balances, mapping.ToDomainStudentSubLedger(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating sub-ledger rows", err)
	}
	return balances, nil
}
