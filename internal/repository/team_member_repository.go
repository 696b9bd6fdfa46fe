package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/society-api/internal/domain"
)

// TeamMemberFilter narrows team listings.
type TeamMemberFilter struct {
	Position *domain.Position
	Active   *bool
}

// TeamMemberRepository handles persistence for team profiles.
type TeamMemberRepository interface {
	Create(ctx context.Context, m *domain.TeamMember) error
	Update(ctx context.Context, m *domain.TeamMember) error
	GetByID(ctx context.Context, id string) (*domain.TeamMember, error)
	GetByEmail(ctx context.Context, email string) (*domain.TeamMember, error)
	List(ctx context.Context, filter TeamMemberFilter) ([]domain.TeamMember, error)
	Delete(ctx context.Context, id string) error
}

type teamMemberRepository struct {
	pool *pgxpool.Pool
}

// NewTeamMemberRepository instantiates the repository.
func NewTeamMemberRepository(pool *pgxpool.Pool) TeamMemberRepository {
	return &teamMemberRepository{pool: pool}
}

const teamMemberColumns = `id, name, email, position, image, bio, phone,
        social_linkedin, social_github, social_twitter, social_portfolio, is_active, created_at, updated_at`

func (r *teamMemberRepository) Create(ctx context.Context, m *domain.TeamMember) error {
	const query = `
        INSERT INTO team_members (name, email, position, image, bio, phone,
            social_linkedin, social_github, social_twitter, social_portfolio, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		m.Name,
		m.Email,
		m.Position,
		m.Image,
		m.Bio,
		m.Phone,
		m.SocialLinks.LinkedIn,
		m.SocialLinks.GitHub,
		m.SocialLinks.Twitter,
		m.SocialLinks.Portfolio,
		m.IsActive,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	return wrapWriteErr(err)
}

func (r *teamMemberRepository) Update(ctx context.Context, m *domain.TeamMember) error {
	const query = `
        UPDATE team_members SET name=$1, email=$2, position=$3, image=$4, bio=$5, phone=$6,
            social_linkedin=$7, social_github=$8, social_twitter=$9, social_portfolio=$10,
            is_active=$11, updated_at=NOW()
        WHERE id=$12
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		m.Name,
		m.Email,
		m.Position,
		m.Image,
		m.Bio,
		m.Phone,
		m.SocialLinks.LinkedIn,
		m.SocialLinks.GitHub,
		m.SocialLinks.Twitter,
		m.SocialLinks.Portfolio,
		m.IsActive,
		m.ID,
	).Scan(&m.UpdatedAt)
	return wrapWriteErr(err)
}

func (r *teamMemberRepository) GetByID(ctx context.Context, id string) (*domain.TeamMember, error) {
	return scanTeamMember(r.pool.QueryRow(ctx, `SELECT `+teamMemberColumns+` FROM team_members WHERE id=$1`, id))
}

func (r *teamMemberRepository) GetByEmail(ctx context.Context, email string) (*domain.TeamMember, error) {
	return scanTeamMember(r.pool.QueryRow(ctx, `SELECT `+teamMemberColumns+` FROM team_members WHERE email=$1`, email))
}

func (r *teamMemberRepository) List(ctx context.Context, filter TeamMemberFilter) ([]domain.TeamMember, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Position != nil {
		args = append(args, *filter.Position)
		clauses = append(clauses, fmt.Sprintf("position=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
	}
	query := fmt.Sprintf(`SELECT %s FROM team_members WHERE %s ORDER BY position ASC, name ASC, id ASC`,
		teamMemberColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TeamMember
	for rows.Next() {
		m, err := scanTeamMember(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	return result, rows.Err()
}

func (r *teamMemberRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM team_members WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTeamMember(row pgx.Row) (*domain.TeamMember, error) {
	var m domain.TeamMember
	if err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&m.Position,
		&m.Image,
		&m.Bio,
		&m.Phone,
		&m.SocialLinks.LinkedIn,
		&m.SocialLinks.GitHub,
		&m.SocialLinks.Twitter,
		&m.SocialLinks.Portfolio,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}
