package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/society-api/internal/domain"
)

// EventFilter captures listing parameters.
type EventFilter struct {
	Category         *domain.EventCategory
	Status           *domain.EventStatus
	RegisteredUserID *string
}

// EventRepository encapsulates event persistence including seat bookkeeping.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, filter EventFilter) ([]domain.Event, error)
	Delete(ctx context.Context, id string) error
	// Register books a seat atomically: duplicate and capacity checks and the
	// insert happen under the event's row lock.
	Register(ctx context.Context, eventID, userID string) error
	Unregister(ctx context.Context, eventID, userID string) error
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventSelect = `
        SELECT e.id, e.title, e.description, e.date, e.location, e.category, e.image,
               e.max_participants, e.registration_count, e.status, e.created_at, e.updated_at,
               u.id, u.full_name, u.email
        FROM events e
        LEFT JOIN users u ON u.id = e.created_by`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (title, description, date, location, category, image, max_participants, status, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, registration_count, created_at, updated_at`

	var createdBy *string
	if event.CreatedBy != nil {
		createdBy = &event.CreatedBy.ID
	}
	return r.pool.QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.Date,
		event.Location,
		event.Category,
		event.Image,
		event.MaxParticipants,
		event.Status,
		createdBy,
	).Scan(&event.ID, &event.RegistrationCount, &event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	const query = `
        UPDATE events SET title=$1, description=$2, date=$3, location=$4, category=$5, image=$6,
            max_participants=$7, status=$8, updated_at=NOW()
        WHERE id=$9 AND ($7::int IS NULL OR registration_count <= $7::int)
        RETURNING registration_count, updated_at`

	err := r.pool.QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.Date,
		event.Location,
		event.Category,
		event.Image,
		event.MaxParticipants,
		event.Status,
		event.ID,
	).Scan(&event.RegistrationCount, &event.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if existsErr := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id=$1)`, event.ID).Scan(&exists); existsErr != nil {
			return existsErr
		}
		if exists {
			return ErrCapacityBelowCount
		}
		return ErrNotFound
	}
	return err
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	event, err := scanEvent(r.pool.QueryRow(ctx, eventSelect+` WHERE e.id=$1`, id))
	if err != nil {
		return nil, err
	}
	regs, err := r.registrations(ctx, []string{event.ID})
	if err != nil {
		return nil, err
	}
	event.Registrations = regs[event.ID]
	return event, nil
}

func (r *eventRepository) List(ctx context.Context, filter EventFilter) ([]domain.Event, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("e.category=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("e.status=$%d", len(args)))
	}
	if filter.RegisteredUserID != nil {
		args = append(args, *filter.RegisteredUserID)
		clauses = append(clauses, fmt.Sprintf("EXISTS (SELECT 1 FROM event_registrations er WHERE er.event_id=e.id AND er.user_id=$%d)", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY e.date ASC, e.id ASC`, eventSelect, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result))
	for i := range result {
		ids = append(ids, result[i].ID)
	}
	regs, err := r.registrations(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Registrations = regs[result[i].ID]
	}
	return result, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *eventRepository) Register(ctx context.Context, eventID, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var locked string
	if err := tx.QueryRow(ctx, `SELECT id FROM events WHERE id=$1 FOR UPDATE`, eventID).Scan(&locked); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `
        INSERT INTO event_registrations (event_id, user_id) VALUES ($1, $2)
        ON CONFLICT (event_id, user_id) DO NOTHING`, eventID, userID)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrAlreadyRegistered
	}

	cmd, err = tx.Exec(ctx, `
        UPDATE events SET registration_count = registration_count + 1
        WHERE id=$1 AND (max_participants IS NULL OR registration_count < max_participants)`, eventID)
	if err != nil {
		return fmt.Errorf("claim seat: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrCapacityExceeded
	}
	return tx.Commit(ctx)
}

func (r *eventRepository) Unregister(ctx context.Context, eventID, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var locked string
	if err := tx.QueryRow(ctx, `SELECT id FROM events WHERE id=$1 FOR UPDATE`, eventID).Scan(&locked); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM event_registrations WHERE event_id=$1 AND user_id=$2`, eventID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotRegistered
	}
	if _, err := tx.Exec(ctx, `UPDATE events SET registration_count = registration_count - 1 WHERE id=$1`, eventID); err != nil {
		return fmt.Errorf("release seat: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *eventRepository) registrations(ctx context.Context, eventIDs []string) (map[string][]domain.EventRegistration, error) {
	result := make(map[string][]domain.EventRegistration, len(eventIDs))
	if len(eventIDs) == 0 {
		return result, nil
	}
	const query = `
        SELECT er.event_id, er.registered_at, u.id, u.full_name, u.email
        FROM event_registrations er
        JOIN users u ON u.id = er.user_id
        WHERE er.event_id = ANY($1::uuid[])
        ORDER BY er.registered_at ASC, u.id ASC`
	rows, err := r.pool.Query(ctx, query, eventIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var reg domain.EventRegistration
		if err := rows.Scan(&reg.EventID, &reg.RegisteredAt, &reg.User.ID, &reg.User.FullName, &reg.User.Email); err != nil {
			return nil, err
		}
		result[reg.EventID] = append(result[reg.EventID], reg)
	}
	return result, rows.Err()
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var (
		event     domain.Event
		maxPart   *int32
		creatorID *string
		creatorNm *string
		creatorEm *string
		date      time.Time
	)
	if err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&date,
		&event.Location,
		&event.Category,
		&event.Image,
		&maxPart,
		&event.RegistrationCount,
		&event.Status,
		&event.CreatedAt,
		&event.UpdatedAt,
		&creatorID,
		&creatorNm,
		&creatorEm,
	); err != nil {
		return nil, err
	}
	event.Date = date
	if maxPart != nil {
		v := int(*maxPart)
		event.MaxParticipants = &v
	}
	event.CreatedBy = userRef(creatorID, creatorNm, creatorEm)
	return &event, nil
}

func userRef(id, name, email *string) *domain.UserRef {
	if id == nil {
		return nil
	}
	ref := &domain.UserRef{ID: *id}
	if name != nil {
		ref.FullName = *name
	}
	if email != nil {
		ref.Email = *email
	}
	return ref
}
