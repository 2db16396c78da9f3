package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	"github.com/m04kA/SMC-BotAdminService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BotAdminService/pkg/pgerr"
	"github.com/m04kA/SMC-BotAdminService/pkg/psqlbuilder"
)

const tenantColumn = "b.tenant_id"

// Repository репозиторий услуг ботов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает услугу
func (r *Repository) Create(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("services").
		Columns("bot_id", "name", "description", "price").
		Values(s.BotID, s.Name, s.Description, s.Price).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID); err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return nil, ErrBotNotFound
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return s, nil
}

func selectServices() squirrel.SelectBuilder {
	return psqlbuilder.Select("s.id", "s.bot_id", "s.name", "s.description", "s.price").
		From("services s").
		Join("bots b ON b.id = s.bot_id")
}

// GetByID получает услугу в пределах области видимости
func (r *Repository) GetByID(ctx context.Context, id int64, scope access.Scope) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder, visible := scope.Apply(selectServices().Where(squirrel.Eq{"s.id": id}), tenantColumn)
	if !visible {
		return nil, ErrServiceNotFound
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.BotID, &s.Name, &s.Description, &s.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan service: %v", ErrScanRow, err)
	}

	return &s, nil
}

// List возвращает услуги в пределах области видимости
func (r *Repository) List(ctx context.Context, scope access.Scope, filter domain.ServiceFilter) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := selectServices().OrderBy("s.bot_id", "s.name", "s.id")
	if filter.BotID != nil {
		builder = builder.Where(squirrel.Eq{"s.bot_id": *filter.BotID})
	}

	builder, visible := scope.Apply(builder, tenantColumn)
	if !visible {
		return []*domain.Service{}, nil
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.BotID, &s.Name, &s.Description, &s.Price); err != nil {
			return nil, fmt.Errorf("%w: List - scan service: %v", ErrScanRow, err)
		}
		services = append(services, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrScanRow, err)
	}

	return services, nil
}

// Update обновляет услугу
func (r *Repository) Update(ctx context.Context, s *domain.Service) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("services").
		Set("bot_id", s.BotID).
		Set("name", s.Name).
		Set("description", s.Description).
		Set("price", s.Price).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return ErrBotNotFound
		}
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "Update")
}

// Delete удаляет услугу; у бронирований ссылка на неё обнуляется
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "Delete")
}

func checkAffected(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rows == 0 {
		return ErrServiceNotFound
	}
	return nil
}
