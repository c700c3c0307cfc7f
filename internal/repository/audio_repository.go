package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/escolaware/escola-api/internal/models"
)

const audioColumns = `id, title, description, owner_id, category, duration, status, filenames, created_at, updated_at`

// AudioRepository provides database access for audio assets.
type AudioRepository struct {
	db *sqlx.DB
}

// NewAudioRepository creates a new instance of AudioRepository.
func NewAudioRepository(db *sqlx.DB) *AudioRepository {
	return &AudioRepository{db: db}
}

// FindByID returns an audio asset by identifier.
func (r *AudioRepository) FindByID(ctx context.Context, id int64) (*models.AudioAsset, error) {
	query := fmt.Sprintf(`SELECT %s FROM audio_assets WHERE id = $1 LIMIT 1`, audioColumns)
	var asset models.AudioAsset
	if err := r.db.GetContext(ctx, &asset, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find audio asset by id: %w", err)
	}
	return &asset, nil
}

// List returns audio assets most recent first, optionally scoped to an
// owning user.
func (r *AudioRepository) List(ctx context.Context, ownerID *int64) ([]models.AudioAsset, error) {
	query := fmt.Sprintf(`SELECT %s FROM audio_assets WHERE 1=1`, audioColumns)
	var args []interface{}

	if ownerID != nil {
		args = append(args, *ownerID)
		query += fmt.Sprintf(" AND owner_id = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	assets := []models.AudioAsset{}
	if err := r.db.SelectContext(ctx, &assets, query, args...); err != nil {
		return nil, fmt.Errorf("list audio assets: %w", err)
	}
	return assets, nil
}

// Create inserts a new audio asset and fills in its generated id.
func (r *AudioRepository) Create(ctx context.Context, asset *models.AudioAsset) error {
	now := time.Now().UTC()
	asset.CreatedAt = now
	asset.UpdatedAt = now

	const query = `INSERT INTO audio_assets (title, description, owner_id, category, duration, status, filenames, created_at, updated_at)
		VALUES (:title, :description, :owner_id, :category, :duration, :status, :filenames, :created_at, :updated_at)
		RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, asset)
	if err != nil {
		return fmt.Errorf("create audio asset: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	if rows.Next() {
		if err := rows.Scan(&asset.ID); err != nil {
			return fmt.Errorf("scan created audio asset id: %w", err)
		}
	}
	return nil
}

// Update persists mutable fields of an audio asset.
func (r *AudioRepository) Update(ctx context.Context, asset *models.AudioAsset) error {
	asset.UpdatedAt = time.Now().UTC()
	const query = `UPDATE audio_assets SET title = :title, description = :description, owner_id = :owner_id, category = :category, duration = :duration, status = :status, filenames = :filenames, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, asset); err != nil {
		return fmt.Errorf("update audio asset: %w", err)
	}
	return nil
}

// Delete removes an audio asset row.
func (r *AudioRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM audio_assets WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete audio asset: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
