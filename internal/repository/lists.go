package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/1-to-100/baseplate-v3-sub003/internal/entity"
)

// ErrListNotFound indicates there is no list row for the given id.
var ErrListNotFound = errors.New("list not found")

// ListsRepository describes persistence operations for company lists and
// their static membership.
type ListsRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.List, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.List, error)
	Create(ctx context.Context, list *entity.List) error
	Update(ctx context.Context, id uuid.UUID, name *string, filters json.RawMessage) (*entity.List, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SelectListMembership(ctx context.Context, listID uuid.UUID) ([]uuid.UUID, error)
	AddMembers(ctx context.Context, listID uuid.UUID, companyIDs []uuid.UUID) error
	RemoveMembers(ctx context.Context, listID uuid.UUID, companyIDs []uuid.UUID) error
}

// PGXListsRepository implements ListsRepository with pgx.
type PGXListsRepository struct {
	pool pgxPool
}

// NewPGXListsRepository instantiates a lists repository.
func NewPGXListsRepository(pool *pgxpool.Pool) *PGXListsRepository {
	return &PGXListsRepository{pool: pool}
}

const listColumns = "id, customer_id, name, type, filters, created_at, updated_at"

// GetByID retrieves a list by identifier.
func (r *PGXListsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.List, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+listColumns+" FROM lists WHERE id = $1", id)
	list, err := scanList(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("get list: %w", err)
	}
	return list, nil
}

// ListByCustomer returns all lists owned by a customer, newest first.
func (r *PGXListsRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.List, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+listColumns+" FROM lists WHERE customer_id = $1 ORDER BY created_at DESC", customerID)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	var lists []entity.List
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, *list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lists: %w", err)
	}
	return lists, nil
}

// Create inserts a new list and fills in generated fields.
func (r *PGXListsRepository) Create(ctx context.Context, list *entity.List) error {
	if list == nil {
		return fmt.Errorf("list payload is nil")
	}
	if list.ID == uuid.Nil {
		list.ID = uuid.New()
	}

	var filters any
	if len(list.Filters) > 0 {
		filters = string(list.Filters)
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO lists (id, customer_id, name, type, filters, updated_at)
        VALUES ($1, $2, $3, $4, $5::jsonb, NOW())
        RETURNING created_at, updated_at
    `, list.ID, list.CustomerID, list.Name, list.Type, filters)
	if err := row.Scan(&list.CreatedAt, &list.UpdatedAt); err != nil {
		return fmt.Errorf("create list: %w", err)
	}
	return nil
}

// Update mutates list name and/or filter blob; nil inputs keep stored values.
func (r *PGXListsRepository) Update(ctx context.Context, id uuid.UUID, name *string, filters json.RawMessage) (*entity.List, error) {
	var filtersArg any
	if len(filters) > 0 {
		filtersArg = string(filters)
	}

	row := r.pool.QueryRow(ctx, `
        UPDATE lists SET
            name = COALESCE($2, name),
            filters = COALESCE($3::jsonb, filters),
            updated_at = NOW()
        WHERE id = $1
        RETURNING `+listColumns, id, name, filtersArg)
	list, err := scanList(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("update list: %w", err)
	}
	return list, nil
}

// Delete removes a list together with its membership rows.
func (r *PGXListsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM lists WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrListNotFound
	}
	return nil
}

// SelectListMembership returns the explicit company-ID set of a static list.
func (r *PGXListsRepository) SelectListMembership(ctx context.Context, listID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, "SELECT company_id FROM list_companies WHERE list_id = $1 ORDER BY company_id", listID)
	if err != nil {
		return nil, fmt.Errorf("select list membership: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan list member: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate list members: %w", err)
	}
	return ids, nil
}

// AddMembers attaches companies to a static list, ignoring duplicates.
func (r *PGXListsRepository) AddMembers(ctx context.Context, listID uuid.UUID, companyIDs []uuid.UUID) error {
	if len(companyIDs) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
        INSERT INTO list_companies (list_id, company_id)
        SELECT $1, unnest($2::uuid[])
        ON CONFLICT (list_id, company_id) DO NOTHING
    `, listID, companyIDs)
	if err != nil {
		return fmt.Errorf("add list members: %w", err)
	}
	return nil
}

// RemoveMembers detaches companies from a static list.
func (r *PGXListsRepository) RemoveMembers(ctx context.Context, listID uuid.UUID, companyIDs []uuid.UUID) error {
	if len(companyIDs) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, "DELETE FROM list_companies WHERE list_id = $1 AND company_id = ANY($2)", listID, companyIDs)
	if err != nil {
		return fmt.Errorf("remove list members: %w", err)
	}
	return nil
}

func scanList(row pgx.Row) (*entity.List, error) {
	var (
		list    entity.List
		filters []byte
	)
	err := row.Scan(
		&list.ID,
		&list.CustomerID,
		&list.Name,
		&list.Type,
		&filters,
		&list.CreatedAt,
		&list.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(filters) > 0 {
		list.Filters = json.RawMessage(filters)
	}
	return &list, nil
}
