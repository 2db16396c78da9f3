package reservation

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

const (
	slotConstraint = "reservations_bot_start_key"
	tenantColumn   = "b.tenant_id"
)

// Repository репозиторий бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование.
// Уникальность (bot_id, start_at) гарантирует ограничение в БД, поэтому
// из двух конкурентных вставок на один слот успешна ровно одна.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"bot_id",
			"service_id",
			"customer_name",
			"customer_phone",
			"start_at",
			"end_at",
			"status",
			"notes",
		).
		Values(
			res.BotID,
			res.ServiceID,
			res.CustomerName,
			res.CustomerPhone,
			res.StartAt,
			res.EndAt,
			res.Status,
			res.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, mapWriteError(err, "Create")
	}

	return res, nil
}

func selectReservations() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"r.id",
		"r.bot_id",
		"r.service_id",
		"r.customer_name",
		"r.customer_phone",
		"r.start_at",
		"r.end_at",
		"r.status",
		"r.notes",
		"r.created_at",
		"r.updated_at",
		"b.name",
		"b.tenant_id",
		"s.name",
	).
		From("reservations r").
		Join("bots b ON b.id = r.bot_id").
		LeftJoin("services s ON s.id = r.service_id")
}

// GetByID получает бронирование в пределах области видимости
func (r *Repository) GetByID(ctx context.Context, id int64, scope access.Scope) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder, visible := scope.Apply(selectReservations().Where(squirrel.Eq{"r.id": id}), tenantColumn)
	if !visible {
		return nil, ErrReservationNotFound
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// List возвращает бронирования в пределах области видимости, по убыванию времени начала
func (r *Repository) List(ctx context.Context, scope access.Scope, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := selectReservations().OrderBy("r.start_at DESC", "r.id DESC")
	if filter.BotID != nil {
		builder = builder.Where(squirrel.Eq{"r.bot_id": *filter.BotID})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"r.status": *filter.Status})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"r.start_at": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.Lt{"r.start_at": *filter.To})
	}

	builder, visible := scope.Apply(builder, tenantColumn)
	if !visible {
		return []*domain.Reservation{}, nil
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

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan reservation: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrScanRow, err)
	}

	return reservations, nil
}

// Update полностью заменяет изменяемые поля бронирования
func (r *Repository) Update(ctx context.Context, res *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("bot_id", res.BotID).
		Set("service_id", res.ServiceID).
		Set("customer_name", res.CustomerName).
		Set("customer_phone", res.CustomerPhone).
		Set("start_at", res.StartAt).
		Set("end_at", res.EndAt).
		Set("status", res.Status).
		Set("notes", res.Notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": res.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReservationNotFound
	}
	if err != nil {
		return mapWriteError(err, "Update")
	}

	return nil
}

// UpdateStatus меняет только статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "UpdateStatus")
}

// Delete удаляет бронирование
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("reservations").
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

func mapWriteError(err error, op string) error {
	switch {
	case pgerr.IsUniqueViolation(err, slotConstraint):
		return ErrSlotTaken
	case pgerr.IsForeignKeyViolation(err):
		return ErrReferenceNotFound
	case pgerr.IsCheckViolation(err):
		return ErrInvalidRange
	}
	return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
}

func checkAffected(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rows == 0 {
		return ErrReservationNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var serviceID sql.NullInt64
	var serviceName sql.NullString

	err := row.Scan(
		&res.ID,
		&res.BotID,
		&serviceID,
		&res.CustomerName,
		&res.CustomerPhone,
		&res.StartAt,
		&res.EndAt,
		&res.Status,
		&res.Notes,
		&res.CreatedAt,
		&res.UpdatedAt,
		&res.BotName,
		&res.TenantID,
		&serviceName,
	)
	if err != nil {
		return nil, err
	}

	if serviceID.Valid {
		res.ServiceID = &serviceID.Int64
	}
	if serviceName.Valid {
		res.ServiceName = &serviceName.String
	}

	return &res, nil
}
