package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/society-api/internal/domain"
)

// AnnouncementFilter captures listing parameters.
type AnnouncementFilter struct {
	Category      *domain.AnnouncementCategory
	PinnedOnly    bool
	PublishedOnly bool
}

// AnnouncementRepository manages announcement persistence.
type AnnouncementRepository interface {
	Create(ctx context.Context, a *domain.Announcement) error
	Update(ctx context.Context, a *domain.Announcement) error
	GetByID(ctx context.Context, id string) (*domain.Announcement, error)
	// List orders pinned first, then newest first.
	List(ctx context.Context, filter AnnouncementFilter) ([]domain.Announcement, error)
	Delete(ctx context.Context, id string) error
}

type announcementRepository struct {
	pool *pgxpool.Pool
}

// NewAnnouncementRepository builds the repository.
func NewAnnouncementRepository(pool *pgxpool.Pool) AnnouncementRepository {
	return &announcementRepository{pool: pool}
}

const announcementSelect = `
        SELECT a.id, a.title, a.content, a.category, a.image, a.is_pinned, a.is_published,
               a.created_at, a.updated_at, u.id, u.full_name, u.email
        FROM announcements a
        LEFT JOIN users u ON u.id = a.created_by`

func (r *announcementRepository) Create(ctx context.Context, a *domain.Announcement) error {
	const query = `
        INSERT INTO announcements (title, content, category, image, is_pinned, is_published, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	var createdBy *string
	if a.CreatedBy != nil {
		createdBy = &a.CreatedBy.ID
	}
	return r.pool.QueryRow(ctx, query,
		a.Title,
		a.Content,
		a.Category,
		a.Image,
		a.IsPinned,
		a.IsPublished,
		createdBy,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *announcementRepository) Update(ctx context.Context, a *domain.Announcement) error {
	const query = `
        UPDATE announcements SET title=$1, content=$2, category=$3, image=$4, is_pinned=$5,
            is_published=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		a.Title,
		a.Content,
		a.Category,
		a.Image,
		a.IsPinned,
		a.IsPublished,
		a.ID,
	).Scan(&a.UpdatedAt)
}

func (r *announcementRepository) GetByID(ctx context.Context, id string) (*domain.Announcement, error) {
	return scanAnnouncement(r.pool.QueryRow(ctx, announcementSelect+` WHERE a.id=$1`, id))
}

func (r *announcementRepository) List(ctx context.Context, filter AnnouncementFilter) ([]domain.Announcement, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("a.category=$%d", len(args)))
	}
	if filter.PinnedOnly {
		clauses = append(clauses, "a.is_pinned = TRUE")
	}
	if filter.PublishedOnly {
		clauses = append(clauses, "a.is_published = TRUE")
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY a.is_pinned DESC, a.created_at DESC, a.id DESC`,
		announcementSelect, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (r *announcementRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM announcements WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAnnouncement(row pgx.Row) (*domain.Announcement, error) {
	var (
		a                   domain.Announcement
		creatorID, nm, mail *string
	)
	if err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Content,
		&a.Category,
		&a.Image,
		&a.IsPinned,
		&a.IsPublished,
		&a.CreatedAt,
		&a.UpdatedAt,
		&creatorID,
		&nm,
		&mail,
	); err != nil {
		return nil, err
	}
	a.CreatedBy = userRef(creatorID, nm, mail)
	return &a, nil
}
