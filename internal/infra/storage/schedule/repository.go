package schedule

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

// Repository репозиторий окон расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает окно расписания
func (r *Repository) Create(ctx context.Context, w *domain.ScheduleWindow) (*domain.ScheduleWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("schedule_windows").
		Columns("bot_id", "day_of_week", "start_time", "end_time").
		Values(w.BotID, w.DayOfWeek, w.StartTime, w.EndTime).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&w.ID); err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return nil, ErrBotNotFound
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return w, nil
}

func selectWindows() squirrel.SelectBuilder {
	return psqlbuilder.Select("w.id", "w.bot_id", "w.day_of_week", "w.start_time", "w.end_time").
		From("schedule_windows w").
		Join("bots b ON b.id = w.bot_id")
}

// GetByID получает окно расписания в пределах области видимости
func (r *Repository) GetByID(ctx context.Context, id int64, scope access.Scope) (*domain.ScheduleWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder, visible := scope.Apply(selectWindows().Where(squirrel.Eq{"w.id": id}), tenantColumn)
	if !visible {
		return nil, ErrWindowNotFound
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var w domain.ScheduleWindow
	err = executor.QueryRowContext(ctx, query, args...).Scan(&w.ID, &w.BotID, &w.DayOfWeek, &w.StartTime, &w.EndTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWindowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan window: %v", ErrScanRow, err)
	}

	return &w, nil
}

// List возвращает окна расписания, упорядоченные по дню недели и времени начала
func (r *Repository) List(ctx context.Context, scope access.Scope, filter domain.ScheduleFilter) ([]*domain.ScheduleWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := selectWindows().OrderBy("w.bot_id", "w.day_of_week", "w.start_time")
	if filter.BotID != nil {
		builder = builder.Where(squirrel.Eq{"w.bot_id": *filter.BotID})
	}

	builder, visible := scope.Apply(builder, tenantColumn)
	if !visible {
		return []*domain.ScheduleWindow{}, nil
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

	windows := make([]*domain.ScheduleWindow, 0)
	for rows.Next() {
		var w domain.ScheduleWindow
		if err := rows.Scan(&w.ID, &w.BotID, &w.DayOfWeek, &w.StartTime, &w.EndTime); err != nil {
			return nil, fmt.Errorf("%w: List - scan window: %v", ErrScanRow, err)
		}
		windows = append(windows, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrScanRow, err)
	}

	return windows, nil
}

// Update обновляет окно расписания
func (r *Repository) Update(ctx context.Context, w *domain.ScheduleWindow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("schedule_windows").
		Set("bot_id", w.BotID).
		Set("day_of_week", w.DayOfWeek).
		Set("start_time", w.StartTime).
		Set("end_time", w.EndTime).
		Where(squirrel.Eq{"id": w.ID}).
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

// Delete удаляет окно расписания
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("schedule_windows").
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
		return ErrWindowNotFound
	}
	return nil
}
