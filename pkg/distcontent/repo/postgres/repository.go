// Package postgres provides a Repository backed by PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/visumlabs/distributor-content/pkg/distcontent"
)

// DBTX is an interface that allows us to use either a connection pool or a
// transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements distcontent.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with a connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry in %s", operation)
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found in %s", operation)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// contentColumns are shared by all four content kind tables.
const contentColumns = `id, title, category, version, language, status, product_id,
	artifact_url, artifact_object_key, artifact_file_name, artifact_size_bytes, artifact_format,
	created_at, updated_at`

// Content operations. Table names come from the closed ContentKind enum,
// never from user input.

func (r *Repository) CreateContent(ctx context.Context, item *distcontent.ContentItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		item.Kind.Table(), contentColumns)

	_, err := r.db.Exec(ctx, query,
		item.ID, item.Title, item.Category, item.Version, item.Language,
		item.Status, item.ProductID,
		item.Artifact.URL, item.Artifact.ObjectKey, item.Artifact.FileName,
		item.Artifact.SizeBytes, item.Artifact.Format,
		item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create "+string(item.Kind), err)
	}
	return nil
}

func (r *Repository) GetContent(ctx context.Context, kind distcontent.ContentKind, id uuid.UUID) (*distcontent.ContentItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, contentColumns, kind.Table())

	item := distcontent.ContentItem{Kind: kind}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.Title, &item.Category, &item.Version, &item.Language,
		&item.Status, &item.ProductID,
		&item.Artifact.URL, &item.Artifact.ObjectKey, &item.Artifact.FileName,
		&item.Artifact.SizeBytes, &item.Artifact.Format,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, distcontent.ErrContentNotFound
		}
		return nil, r.handlePostgresError("get "+string(kind), err)
	}
	return &item, nil
}

func (r *Repository) UpdateContent(ctx context.Context, item *distcontent.ContentItem) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			title = $2, category = $3, version = $4, language = $5, status = $6,
			product_id = $7, artifact_url = $8, artifact_object_key = $9,
			artifact_file_name = $10, artifact_size_bytes = $11, artifact_format = $12,
			updated_at = $13
		WHERE id = $1`, item.Kind.Table())

	tag, err := r.db.Exec(ctx, query,
		item.ID, item.Title, item.Category, item.Version, item.Language,
		item.Status, item.ProductID,
		item.Artifact.URL, item.Artifact.ObjectKey, item.Artifact.FileName,
		item.Artifact.SizeBytes, item.Artifact.Format, item.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update "+string(item.Kind), err)
	}
	if tag.RowsAffected() == 0 {
		return distcontent.ErrContentNotFound
	}
	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, kind distcontent.ContentKind, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, kind.Table())
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return r.handlePostgresError("delete "+string(kind), err)
	}
	if tag.RowsAffected() == 0 {
		return distcontent.ErrContentNotFound
	}
	return nil
}

func (r *Repository) ListContent(ctx context.Context, kind distcontent.ContentKind) ([]*distcontent.ContentItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at DESC`, contentColumns, kind.Table())

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list "+string(kind), err)
	}
	defer rows.Close()

	var items []*distcontent.ContentItem
	for rows.Next() {
		item := distcontent.ContentItem{Kind: kind}
		if err := rows.Scan(
			&item.ID, &item.Title, &item.Category, &item.Version, &item.Language,
			&item.Status, &item.ProductID,
			&item.Artifact.URL, &item.Artifact.ObjectKey, &item.Artifact.FileName,
			&item.Artifact.SizeBytes, &item.Artifact.Format,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// Sharing operations. Row counts are returned to the caller; the service
// layer is the verified-write gatekeeper.

func (r *Repository) ListSharing(ctx context.Context, kind distcontent.ContentKind, contentID uuid.UUID) ([]uuid.UUID, error) {
	query := fmt.Sprintf(`SELECT distributor_id FROM %s WHERE %s = $1`,
		kind.SharingTable(), kind.SharingColumn())

	rows, err := r.db.Query(ctx, query, contentID)
	if err != nil {
		return nil, r.handlePostgresError("list sharing", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repository) DeleteSharing(ctx context.Context, kind distcontent.ContentKind, contentID uuid.UUID) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		kind.SharingTable(), kind.SharingColumn())

	tag, err := r.db.Exec(ctx, query, contentID)
	if err != nil {
		return 0, r.handlePostgresError("delete sharing", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) InsertSharing(ctx context.Context, kind distcontent.ContentKind, contentID uuid.UUID, distributorIDs []uuid.UUID) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, distributor_id)
		SELECT $1, unnest($2::uuid[])`,
		kind.SharingTable(), kind.SharingColumn())

	tag, err := r.db.Exec(ctx, query, contentID, distributorIDs)
	if err != nil {
		return 0, r.handlePostgresError("insert sharing", err)
	}
	return tag.RowsAffected(), nil
}

// Release operations

func (r *Repository) CreateRelease(ctx context.Context, release *distcontent.Release) error {
	query := `
		INSERT INTO releases (
			id, name, version, release_type, product_id, description,
			artifact_url, artifact_object_key, artifact_file_name, artifact_size_bytes, artifact_format,
			mandatory, notify, targeting, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.db.Exec(ctx, query,
		release.ID, release.Name, release.Version, release.ReleaseType,
		release.ProductID, release.Description,
		release.Artifact.URL, release.Artifact.ObjectKey, release.Artifact.FileName,
		release.Artifact.SizeBytes, release.Artifact.Format,
		release.Mandatory, release.Notify, release.Targeting, release.Status,
		release.CreatedAt, release.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create release", err)
	}
	return nil
}

const releaseColumns = `id, name, version, release_type, product_id, description,
	artifact_url, artifact_object_key, artifact_file_name, artifact_size_bytes, artifact_format,
	mandatory, notify, targeting, status, created_at, updated_at`

func (r *Repository) scanRelease(row pgx.Row) (*distcontent.Release, error) {
	var release distcontent.Release
	err := row.Scan(
		&release.ID, &release.Name, &release.Version, &release.ReleaseType,
		&release.ProductID, &release.Description,
		&release.Artifact.URL, &release.Artifact.ObjectKey, &release.Artifact.FileName,
		&release.Artifact.SizeBytes, &release.Artifact.Format,
		&release.Mandatory, &release.Notify, &release.Targeting, &release.Status,
		&release.CreatedAt, &release.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &release, nil
}

func (r *Repository) GetRelease(ctx context.Context, id uuid.UUID) (*distcontent.Release, error) {
	query := `SELECT ` + releaseColumns + ` FROM releases WHERE id = $1`
	release, err := r.scanRelease(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, distcontent.ErrReleaseNotFound
		}
		return nil, r.handlePostgresError("get release", err)
	}
	return release, nil
}

func (r *Repository) UpdateRelease(ctx context.Context, release *distcontent.Release) error {
	query := `
		UPDATE releases SET
			name = $2, version = $3, release_type = $4, product_id = $5, description = $6,
			artifact_url = $7, artifact_object_key = $8, artifact_file_name = $9,
			artifact_size_bytes = $10, artifact_format = $11,
			mandatory = $12, notify = $13, targeting = $14, status = $15, updated_at = $16
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		release.ID, release.Name, release.Version, release.ReleaseType,
		release.ProductID, release.Description,
		release.Artifact.URL, release.Artifact.ObjectKey, release.Artifact.FileName,
		release.Artifact.SizeBytes, release.Artifact.Format,
		release.Mandatory, release.Notify, release.Targeting, release.Status,
		release.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update release", err)
	}
	if tag.RowsAffected() == 0 {
		return distcontent.ErrReleaseNotFound
	}
	return nil
}

func (r *Repository) DeleteRelease(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM releases WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete release", err)
	}
	if tag.RowsAffected() == 0 {
		return distcontent.ErrReleaseNotFound
	}
	return nil
}

func (r *Repository) ListReleases(ctx context.Context) ([]*distcontent.Release, error) {
	query := `SELECT ` + releaseColumns + ` FROM releases ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list releases", err)
	}
	defer rows.Close()

	var releases []*distcontent.Release
	for rows.Next() {
		release, err := r.scanRelease(rows)
		if err != nil {
			return nil, err
		}
		releases = append(releases, release)
	}
	return releases, rows.Err()
}

// Release target operations

func (r *Repository) InsertReleaseDistributors(ctx context.Context, releaseID uuid.UUID, distributorIDs []uuid.UUID) (int64, error) {
	query := `
		INSERT INTO release_target_distributors (release_id, distributor_id)
		SELECT $1, unnest($2::uuid[])`

	tag, err := r.db.Exec(ctx, query, releaseID, distributorIDs)
	if err != nil {
		return 0, r.handlePostgresError("insert release distributors", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) InsertReleaseDevices(ctx context.Context, releaseID uuid.UUID, deviceIDs []uuid.UUID) (int64, error) {
	query := `
		INSERT INTO release_target_devices (release_id, device_id)
		SELECT $1, unnest($2::uuid[])`

	tag, err := r.db.Exec(ctx, query, releaseID, deviceIDs)
	if err != nil {
		return 0, r.handlePostgresError("insert release devices", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) GetReleaseTargets(ctx context.Context, releaseID uuid.UUID) (*distcontent.ReleaseTargets, error) {
	targets := &distcontent.ReleaseTargets{
		DistributorIDs: []uuid.UUID{},
		DeviceIDs:      []uuid.UUID{},
	}

	rows, err := r.db.Query(ctx,
		`SELECT distributor_id FROM release_target_distributors WHERE release_id = $1`, releaseID)
	if err != nil {
		return nil, r.handlePostgresError("get release targets", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		targets.DistributorIDs = append(targets.DistributorIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.db.Query(ctx,
		`SELECT device_id FROM release_target_devices WHERE release_id = $1`, releaseID)
	if err != nil {
		return nil, r.handlePostgresError("get release targets", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		targets.DeviceIDs = append(targets.DeviceIDs, id)
	}
	return targets, rows.Err()
}

func (r *Repository) DeleteReleaseTargets(ctx context.Context, releaseID uuid.UUID) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM release_target_distributors WHERE release_id = $1`, releaseID); err != nil {
		return r.handlePostgresError("delete release targets", err)
	}
	if _, err := r.db.Exec(ctx,
		`DELETE FROM release_target_devices WHERE release_id = $1`, releaseID); err != nil {
		return r.handlePostgresError("delete release targets", err)
	}
	return nil
}

// Targeting lookups

func (r *Repository) ListDistributors(ctx context.Context) ([]*distcontent.Distributor, error) {
	query := `SELECT id, name, region, user_count FROM distributors ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list distributors", err)
	}
	defer rows.Close()

	var distributors []*distcontent.Distributor
	for rows.Next() {
		var d distcontent.Distributor
		if err := rows.Scan(&d.ID, &d.Name, &d.Region, &d.UserCount); err != nil {
			return nil, err
		}
		distributors = append(distributors, &d)
	}
	return distributors, rows.Err()
}

func (r *Repository) SearchDevices(ctx context.Context, query string) ([]*distcontent.Device, error) {
	sql := `
		SELECT id, name, serial_number, customer_name FROM devices
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR serial_number ILIKE '%' || $1 || '%')
		ORDER BY name
		LIMIT 50`

	rows, err := r.db.Query(ctx, sql, strings.TrimSpace(query))
	if err != nil {
		return nil, r.handlePostgresError("search devices", err)
	}
	defer rows.Close()

	var devices []*distcontent.Device
	for rows.Next() {
		var d distcontent.Device
		if err := rows.Scan(&d.ID, &d.Name, &d.SerialNumber, &d.CustomerName); err != nil {
			return nil, err
		}
		devices = append(devices, &d)
	}
	return devices, rows.Err()
}
