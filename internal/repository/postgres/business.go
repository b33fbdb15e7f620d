package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/filter"
)

var businesses = table{
	name:    "businesses",
	alias:   "b",
	columns: "b.id, b.name, b.type, b.address, b.phone, b.email, b.description, b.created_at, b.updated_at",
	filters: filter.Columns{
		criteria.FieldID:   {Expr: "b.id", Type: filter.TypeOf[int64]()},
		criteria.FieldName: {Expr: "b.name", Type: filter.TypeOf[string]()},
		criteria.FieldType: {Expr: "b.type", Type: filter.TypeOf[model.BusinessType]()},
	},
}

var customers = table{
	name:    "customers",
	alias:   "c",
	columns: "c.id, c.first_name, c.last_name, c.email, c.phone, c.notes, c.business_id, c.created_at, c.updated_at",
	filters: filter.Columns{
		criteria.FieldID:         {Expr: "c.id", Type: filter.TypeOf[int64]()},
		criteria.FieldEmail:      {Expr: "c.email", Type: filter.TypeOf[string]()},
		criteria.FieldBusinessID: {Expr: "c.business_id", Type: filter.TypeOf[int64]()},
	},
}

var offeredServices = table{
	name:    "offered_services",
	alias:   "s",
	columns: "s.id, s.name, s.description, s.duration_minutes, s.price, s.business_id, s.created_at, s.updated_at",
	filters: filter.Columns{
		criteria.FieldID:         {Expr: "s.id", Type: filter.TypeOf[int64]()},
		criteria.FieldName:       {Expr: "s.name", Type: filter.TypeOf[string]()},
		criteria.FieldBusinessID: {Expr: "s.business_id", Type: filter.TypeOf[int64]()},
	},
}

type businessRepository struct {
	BaseRepository
}

func NewBusinessRepository(db *sqlx.DB) repository.BusinessRepository {
	return &businessRepository{NewBaseRepository(db)}
}

func (r *businessRepository) Create(ctx context.Context, b *model.Business) error {
	query := `
		INSERT INTO businesses (name, type, address, phone, email, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	err := r.db.QueryRowxContext(ctx, query,
		b.Name, b.Type, b.Address, b.Phone, b.Email, b.Description, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("failed to create business: %w", err)
	}
	return nil
}

func (r *businessRepository) Get(ctx context.Context, id int64) (*model.Business, error) {
	var b model.Business
	if err := r.getByID(ctx, &b, businesses, id); err != nil {
		return nil, fmt.Errorf("failed to get business: %w", err)
	}
	return &b, nil
}

func (r *businessRepository) Update(ctx context.Context, b *model.Business) error {
	query := `
		UPDATE businesses
		SET name = $1, type = $2, address = $3, phone = $4, email = $5, description = $6, updated_at = $7
		WHERE id = $8
	`
	b.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		b.Name, b.Type, b.Address, b.Phone, b.Email, b.Description, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update business: %w", err)
	}
	if err := expectRows(result); err != nil {
		return fmt.Errorf("failed to update business: %w", err)
	}
	return nil
}

func (r *businessRepository) Delete(ctx context.Context, id int64) error {
	if err := r.deleteByID(ctx, businesses, id); err != nil {
		return fmt.Errorf("failed to delete business: %w", err)
	}
	return nil
}

func (r *businessRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Business, error) {
	var out []*model.Business
	if err := r.find(ctx, &out, businesses, spec, page); err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	return out, nil
}

func (r *businessRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	n, err := r.count(ctx, businesses, spec)
	if err != nil {
		return 0, fmt.Errorf("failed to count businesses: %w", err)
	}
	return n, nil
}

type customerRepository struct {
	BaseRepository
}

func NewCustomerRepository(db *sqlx.DB) repository.CustomerRepository {
	return &customerRepository{NewBaseRepository(db)}
}

func (r *customerRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
		INSERT INTO customers (first_name, last_name, email, phone, notes, business_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	err := r.db.QueryRowxContext(ctx, query,
		c.FirstName, c.LastName, c.Email, c.Phone, c.Notes, c.BusinessID, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id int64) (*model.Customer, error) {
	var c model.Customer
	if err := r.getByID(ctx, &c, customers, id); err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE lower(c.email) = lower($1) ORDER BY c.id LIMIT 1",
		customers.columns, customers.from())

	var c model.Customer
	if err := r.db.GetContext(ctx, &c, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer by email: %w", err)
	}
	return &c, nil
}

func (r *customerRepository) Update(ctx context.Context, c *model.Customer) error {
	query := `
		UPDATE customers
		SET first_name = $1, last_name = $2, email = $3, phone = $4, notes = $5, business_id = $6, updated_at = $7
		WHERE id = $8
	`
	c.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		c.FirstName, c.LastName, c.Email, c.Phone, c.Notes, c.BusinessID, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if err := expectRows(result); err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id int64) error {
	if err := r.deleteByID(ctx, customers, id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Customer, error) {
	var out []*model.Customer
	if err := r.find(ctx, &out, customers, spec, page); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return out, nil
}

func (r *customerRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	n, err := r.count(ctx, customers, spec)
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return n, nil
}

type offeredServiceRepository struct {
	BaseRepository
}

func NewOfferedServiceRepository(db *sqlx.DB) repository.OfferedServiceRepository {
	return &offeredServiceRepository{NewBaseRepository(db)}
}

func (r *offeredServiceRepository) Create(ctx context.Context, s *model.OfferedService) error {
	query := `
		INSERT INTO offered_services (name, description, duration_minutes, price, business_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	err := r.db.QueryRowxContext(ctx, query,
		s.Name, s.Description, s.DurationMinutes, s.Price, s.BusinessID, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to create offered service: %w", err)
	}
	return nil
}

func (r *offeredServiceRepository) Get(ctx context.Context, id int64) (*model.OfferedService, error) {
	var s model.OfferedService
	if err := r.getByID(ctx, &s, offeredServices, id); err != nil {
		return nil, fmt.Errorf("failed to get offered service: %w", err)
	}
	return &s, nil
}

func (r *offeredServiceRepository) Update(ctx context.Context, s *model.OfferedService) error {
	query := `
		UPDATE offered_services
		SET name = $1, description = $2, duration_minutes = $3, price = $4, business_id = $5, updated_at = $6
		WHERE id = $7
	`
	s.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		s.Name, s.Description, s.DurationMinutes, s.Price, s.BusinessID, s.UpdatedAt, s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update offered service: %w", err)
	}
	if err := expectRows(result); err != nil {
		return fmt.Errorf("failed to update offered service: %w", err)
	}
	return nil
}

func (r *offeredServiceRepository) Delete(ctx context.Context, id int64) error {
	if err := r.deleteByID(ctx, offeredServices, id); err != nil {
		return fmt.Errorf("failed to delete offered service: %w", err)
	}
	return nil
}

func (r *offeredServiceRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.OfferedService, error) {
	var out []*model.OfferedService
	if err := r.find(ctx, &out, offeredServices, spec, page); err != nil {
		return nil, fmt.Errorf("failed to list offered services: %w", err)
	}
	return out, nil
}

func (r *offeredServiceRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	n, err := r.count(ctx, offeredServices, spec)
	if err != nil {
		return 0, fmt.Errorf("failed to count offered services: %w", err)
	}
	return n, nil
}
