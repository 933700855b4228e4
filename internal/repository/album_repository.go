package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/database"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/models"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

// AlbumRepository defines methods for interacting with albums and their images
type AlbumRepository interface {
	// Create inserts the album and one image row per url in a single transaction
	Create(ctx context.Context, album *models.Album, imageURLs []string) error
	GetByID(ctx context.Context, id int64) (*models.Album, error)
	GetOwnerID(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, filter models.AlbumFilter) ([]models.Album, int, error)
	// Update changes title and description, removes the listed images and adds
	// new ones in one transaction. It returns the image rows actually removed.
	Update(ctx context.Context, album *models.Album, removeIDs []int64, addURLs []string) ([]models.Image, error)
	Delete(ctx context.Context, id int64) error
}

// SQLAlbumRepository is the database/sql implementation of AlbumRepository
type SQLAlbumRepository struct {
	db *database.Pool
}

// NewAlbumRepository creates a new AlbumRepository
func NewAlbumRepository(db *database.Pool) AlbumRepository {
	return &SQLAlbumRepository{
		db: db,
	}
}

// Create adds a new album and its images
func (r *SQLAlbumRepository) Create(ctx context.Context, album *models.Album, imageURLs []string) error {
	now := time.Now().UTC()
	album.CreatedAt = now
	album.UpdatedAt = now

	err := r.db.Transaction(ctx, func(tx *sql.Tx) error {
		startTime := time.Now()
		query := `
            INSERT INTO albums (title, description, user_id, folder_name, created_at, updated_at)
            VALUES (?, ?, ?, ?, ?, ?)`
		args := []any{album.Title, album.Description, album.UserID, album.FolderName, album.CreatedAt, album.UpdatedAt}

		id, err := r.db.InsertReturningID(ctx, tx, query, args...)
		utils.LogDBQuery(query, args, time.Since(startTime), err)
		if err != nil {
			return err
		}
		album.ID = id

		images, err := r.insertImages(ctx, tx, album.ID, imageURLs, now)
		if err != nil {
			return err
		}
		album.Images = images
		return nil
	})
	if err != nil {
		if utils.IsDuplicateKeyError(err) {
			return utils.NewDuplicateError("An album with this folder already exists", "folderName")
		}
		return fmt.Errorf("failed to create album: %w", err)
	}

	log.Info().
		Int64("album_id", album.ID).
		Int64("user_id", album.UserID).
		Int("images", len(album.Images)).
		Msg("Album created")

	return nil
}

func (r *SQLAlbumRepository) insertImages(ctx context.Context, tx *sql.Tx, albumID int64, urls []string, now time.Time) ([]models.Image, error) {
	images := make([]models.Image, 0, len(urls))
	query := "INSERT INTO images (album_id, image_url, created_at) VALUES (?, ?, ?)"

	for _, url := range urls {
		startTime := time.Now()
		args := []any{albumID, url, now}
		id, err := r.db.InsertReturningID(ctx, tx, query, args...)
		utils.LogDBQuery(query, args, time.Since(startTime), err)
		if err != nil {
			return nil, err
		}
		images = append(images, models.Image{ID: id, AlbumID: albumID, ImageURL: url, CreatedAt: now})
	}
	return images, nil
}

// GetByID retrieves an album with its owner and images
func (r *SQLAlbumRepository) GetByID(ctx context.Context, id int64) (*models.Album, error) {
	startTime := time.Now()

	query := `
        SELECT a.id, a.title, a.description, a.user_id, a.folder_name, a.created_at, a.updated_at,
               u.email, u.first_name, u.last_name, u.created_at, u.updated_at
        FROM albums a
        JOIN users u ON u.id = a.user_id
        WHERE a.id = ?`

	album := &models.Album{User: &models.User{}}
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), id).Scan(
		&album.ID,
		&album.Title,
		&album.Description,
		&album.UserID,
		&album.FolderName,
		&album.CreatedAt,
		&album.UpdatedAt,
		&album.User.Email,
		&album.User.FirstName,
		&album.User.LastName,
		&album.User.CreatedAt,
		&album.User.UpdatedAt,
	)
	utils.LogDBQuery(query, []any{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError(constants.MsgAlbumNotFound)
		}
		return nil, fmt.Errorf("failed to get album by ID: %w", err)
	}
	album.User.ID = album.UserID

	images, err := r.listImages(ctx, album.ID)
	if err != nil {
		return nil, err
	}
	album.Images = images

	return album, nil
}

func (r *SQLAlbumRepository) listImages(ctx context.Context, albumID int64) ([]models.Image, error) {
	startTime := time.Now()

	query := "SELECT id, album_id, image_url, created_at FROM images WHERE album_id = ? ORDER BY id"
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), albumID)
	utils.LogDBQuery(query, []any{albumID}, time.Since(startTime), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list album images: %w", err)
	}
	defer rows.Close()

	images := []models.Image{}
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(&img.ID, &img.AlbumID, &img.ImageURL, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating image rows: %w", err)
	}
	return images, nil
}

// GetOwnerID returns the id of the user owning the album
func (r *SQLAlbumRepository) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	startTime := time.Now()

	query := "SELECT user_id FROM albums WHERE id = ?"
	var ownerID int64
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), id).Scan(&ownerID)
	utils.LogDBQuery(query, []any{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, utils.NewNotFoundError(constants.MsgAlbumNotFound)
		}
		return 0, fmt.Errorf("failed to get album owner: %w", err)
	}
	return ownerID, nil
}

// List returns one page of albums matching filter and the total match count
func (r *SQLAlbumRepository) List(ctx context.Context, filter models.AlbumFilter) ([]models.Album, int, error) {
	var (
		conditions []string
		args       []any
	)
	if !filter.IncludeOthers {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := r.db.Dialect.CaseInsensitiveLike()
		pattern := "%" + escapeLike(search) + "%"
		conditions = append(conditions, fmt.Sprintf("(title %s ? OR description %s ?)", like, like))
		args = append(args, pattern, pattern)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	startTime := time.Now()
	countQuery := "SELECT COUNT(*) FROM albums" + where
	var total int
	err := r.db.QueryRowContext(ctx, r.db.Rebind(countQuery), args...).Scan(&total)
	utils.LogDBQuery(countQuery, args, time.Since(startTime), err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count albums: %w", err)
	}

	startTime = time.Now()
	query := "SELECT id, title, description, user_id, folder_name, created_at, updated_at FROM albums" +
		where + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	pageArgs := append(append([]any{}, args...), filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), pageArgs...)
	utils.LogDBQuery(query, pageArgs, time.Since(startTime), err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list albums: %w", err)
	}
	defer rows.Close()

	albums := []models.Album{}
	for rows.Next() {
		var a models.Album
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.UserID, &a.FolderName, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan album: %w", err)
		}
		albums = append(albums, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating album rows: %w", err)
	}

	return albums, total, nil
}

// Update applies changes to an album and its images
func (r *SQLAlbumRepository) Update(ctx context.Context, album *models.Album, removeIDs []int64, addURLs []string) ([]models.Image, error) {
	now := time.Now().UTC()
	album.UpdatedAt = now

	var removed []models.Image
	err := r.db.Transaction(ctx, func(tx *sql.Tx) error {
		startTime := time.Now()
		query := "UPDATE albums SET title = ?, description = ?, updated_at = ? WHERE id = ?"
		args := []any{album.Title, album.Description, album.UpdatedAt, album.ID}
		result, err := tx.ExecContext(ctx, r.db.Rebind(query), args...)
		utils.LogDBQuery(query, args, time.Since(startTime), err)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return utils.NewNotFoundError(constants.MsgAlbumNotFound)
		}

		if len(removeIDs) > 0 {
			removed, err = r.removeImages(ctx, tx, album.ID, removeIDs)
			if err != nil {
				return err
			}
		}

		_, err = r.insertImages(ctx, tx, album.ID, addURLs, now)
		return err
	})
	if err != nil {
		if utils.IsNotFoundError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update album: %w", err)
	}

	log.Info().
		Int64("album_id", album.ID).
		Int("images_removed", len(removed)).
		Int("images_added", len(addURLs)).
		Msg("Album updated")

	return removed, nil
}

// removeImages deletes the images of albumID among ids. Ids belonging to other
// albums are ignored.
func (r *SQLAlbumRepository) removeImages(ctx context.Context, tx *sql.Tx, albumID int64, ids []int64) ([]models.Image, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, 0, len(ids)+1)
	args = append(args, albumID)
	for _, id := range ids {
		args = append(args, id)
	}

	startTime := time.Now()
	query := "SELECT id, album_id, image_url, created_at FROM images WHERE album_id = ? AND id IN (" + placeholders + ")"
	rows, err := tx.QueryContext(ctx, r.db.Rebind(query), args...)
	utils.LogDBQuery(query, args, time.Since(startTime), err)
	if err != nil {
		return nil, err
	}

	var images []models.Image
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(&img.ID, &img.AlbumID, &img.ImageURL, &img.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(images) == 0 {
		return nil, nil
	}

	startTime = time.Now()
	query = "DELETE FROM images WHERE album_id = ? AND id IN (" + placeholders + ")"
	_, err = tx.ExecContext(ctx, r.db.Rebind(query), args...)
	utils.LogDBQuery(query, args, time.Since(startTime), err)
	if err != nil {
		return nil, err
	}
	return images, nil
}

// Delete removes an album; its images cascade
func (r *SQLAlbumRepository) Delete(ctx context.Context, id int64) error {
	startTime := time.Now()

	query := "DELETE FROM albums WHERE id = ?"
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), id)
	utils.LogDBQuery(query, []any{id}, time.Since(startTime), err)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError(constants.MsgAlbumNotFound)
	}

	log.Info().Int64("album_id", id).Msg("Album deleted")
	return nil
}

// escapeLike escapes the LIKE wildcards of a user supplied search term
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
