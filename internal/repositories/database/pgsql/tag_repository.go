package pgsql

import (
	"context"
	"time"

	"github.com/donorops/pledge_ledger_app/internal/apperrors"
	"github.com/donorops/pledge_ledger_app/internal/core/domain"
	"github.com/donorops/pledge_ledger_app/internal/models"
	"github.com/donorops/pledge_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTagRepository implements TagRepositoryFacade using pgxpool.
type PgxTagRepository struct {
	BaseRepository
}

func newPgxTagRepository(db *pgxpool.Pool, callTimeout time.Duration) *PgxTagRepository {
	return &PgxTagRepository{
		BaseRepository: BaseRepository{Pool: db, CallTimeout: callTimeout},
	}
}

const selectTagColumns = `
	tag_id, name, is_active, show_on_payment,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTag(row pgx.Row) (*models.Tag, error) {
	var m models.Tag
	err := row.Scan(
		&m.TagID, &m.Name, &m.IsActive, &m.ShowOnPayment,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindTagsByIDs resolves a set of tag ids in one query. Unknown ids are
// absent from the result map.
func (r *PgxTagRepository) FindTagsByIDs(ctx context.Context, tagIDs []string) (map[string]domain.Tag, error) {
	if len(tagIDs) == 0 {
		return map[string]domain.Tag{}, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, `SELECT `+selectTagColumns+` FROM tags WHERE tag_id = ANY($1)`, tagIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find tags", err)
	}
	defer rows.Close()

	tags := make(map[string]domain.Tag, len(tagIDs))
	for rows.Next() {
		m, err := scanTag(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tag", err)
		}
		tags[m.TagID] = mapping.ToDomainTag(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tags", err)
	}
	return tags, nil
}

// FindTagsByPaymentID returns the tags linked to a payment.
func (r *PgxTagRepository) FindTagsByPaymentID(ctx context.Context, paymentID string) ([]domain.Tag, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, `
		SELECT t.tag_id, t.name, t.is_active, t.show_on_payment,
			t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
		FROM tags t
		JOIN payment_tags pt ON pt.tag_id = t.tag_id
		WHERE pt.payment_id = $1
		ORDER BY t.name`, paymentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find payment tags", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		m, err := scanTag(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tag", err)
		}
		tags = append(tags, mapping.ToDomainTag(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tags", err)
	}
	return tags, nil
}
