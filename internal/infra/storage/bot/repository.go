package bot

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

const phoneIDConstraint = "bots_whatsapp_phone_id_key"

// tenantColumn колонка владельца для ограничения выборок
const tenantColumn = "b.tenant_id"

// Repository репозиторий ботов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ботов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бота. Проверка квоты выполняется вызывающим кодом в той же транзакции.
func (r *Repository) Create(ctx context.Context, b *domain.Bot) (*domain.Bot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bots").
		Columns("tenant_id", "name", "description", "system_prompt", "whatsapp_phone_id", "enabled", "blocked").
		Values(b.TenantID, b.Name, b.Description, b.SystemPrompt, b.WhatsAppPhoneID, b.Enabled, b.Blocked).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		switch {
		case pgerr.IsUniqueViolation(err, phoneIDConstraint):
			return nil, ErrPhoneIDTaken
		case pgerr.IsForeignKeyViolation(err):
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return b, nil
}

func selectDetailed() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"b.id",
		"b.tenant_id",
		"b.name",
		"b.description",
		"b.system_prompt",
		"b.whatsapp_phone_id",
		"b.enabled",
		"b.blocked",
		"b.created_at",
		"b.updated_at",
		"t.name",
		"t.status",
		"(SELECT COUNT(*) FROM reservations rs WHERE rs.bot_id = b.id) AS total_reservations",
		"(SELECT COUNT(*) FROM reservations rs WHERE rs.bot_id = b.id AND rs.status = 'pending') AS pending_reservations",
	).
		From("bots b").
		Join("tenants t ON t.id = b.tenant_id")
}

// GetByID получает бота по ID в пределах области видимости
func (r *Repository) GetByID(ctx context.Context, id int64, scope access.Scope) (*domain.Bot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder, visible := scope.Apply(selectDetailed().Where(squirrel.Eq{"b.id": id}), tenantColumn)
	if !visible {
		return nil, ErrBotNotFound
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan bot: %v", ErrScanRow, err)
	}

	return b, nil
}

// List возвращает ботов в пределах области видимости, новые первыми
func (r *Repository) List(ctx context.Context, scope access.Scope, filter domain.BotFilter) ([]*domain.Bot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := selectDetailed().OrderBy("b.created_at DESC", "b.id DESC")
	if filter.TenantID != nil {
		builder = builder.Where(squirrel.Eq{"b.tenant_id": *filter.TenantID})
	}

	builder, visible := scope.Apply(builder, tenantColumn)
	if !visible {
		return []*domain.Bot{}, nil
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

	bots := make([]*domain.Bot, 0)
	for rows.Next() {
		b, err := scanBot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan bot: %v", ErrScanRow, err)
		}
		bots = append(bots, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrScanRow, err)
	}

	return bots, nil
}

// CountByTenant количество ботов арендатора
func (r *Repository) CountByTenant(ctx context.Context, tenantID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bots").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountByTenant - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByTenant - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// Update обновляет все редактируемые поля бота
func (r *Repository) Update(ctx context.Context, b *domain.Bot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bots").
		Set("name", b.Name).
		Set("description", b.Description).
		Set("system_prompt", b.SystemPrompt).
		Set("whatsapp_phone_id", b.WhatsAppPhoneID).
		Set("enabled", b.Enabled).
		Set("blocked", b.Blocked).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBotNotFound
	}
	if err != nil {
		if pgerr.IsUniqueViolation(err, phoneIDConstraint) {
			return ErrPhoneIDTaken
		}
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// ToggleBlocked инвертирует флаг блокировки бота арендатора и возвращает новое значение
func (r *Repository) ToggleBlocked(ctx context.Context, tenantID, botID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bots").
		Set("blocked", squirrel.Expr("NOT blocked")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": botID, "tenant_id": tenantID}).
		Suffix("RETURNING blocked").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ToggleBlocked - build update query: %v", ErrBuildQuery, err)
	}

	var blocked bool
	err = executor.QueryRowContext(ctx, query, args...).Scan(&blocked)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrBotNotFound
	}
	if err != nil {
		return false, fmt.Errorf("%w: ToggleBlocked - execute update: %v", ErrExecQuery, err)
	}

	return blocked, nil
}

// DisableAllByTenant выключает всех включённых ботов арендатора, возвращает их количество
func (r *Repository) DisableAllByTenant(ctx context.Context, tenantID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bots").
		Set("enabled", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"tenant_id": tenantID, "enabled": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DisableAllByTenant - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DisableAllByTenant - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DisableAllByTenant - get rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// Delete удаляет бота вместе с услугами, расписанием и бронированиями
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rows == 0 {
		return ErrBotNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBot(row rowScanner) (*domain.Bot, error) {
	var b domain.Bot

	err := row.Scan(
		&b.ID,
		&b.TenantID,
		&b.Name,
		&b.Description,
		&b.SystemPrompt,
		&b.WhatsAppPhoneID,
		&b.Enabled,
		&b.Blocked,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.TenantName,
		&b.TenantStatus,
		&b.TotalReservations,
		&b.PendingReservations,
	)
	if err != nil {
		return nil, err
	}

	return &b, nil
}
