package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	"github.com/m04kA/SMC-BotAdminService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BotAdminService/pkg/pgerr"
	"github.com/m04kA/SMC-BotAdminService/pkg/psqlbuilder"
)

const userIDConstraint = "tenants_user_id_key"

// orderings допустимые значения сортировки списка
var orderings = map[string]string{
	"registered_at":  "t.registered_at ASC",
	"-registered_at": "t.registered_at DESC",
	"name":           "t.name ASC",
	"-name":          "t.name DESC",
	"status":         "t.status ASC",
	"-status":        "t.status DESC",
}

// DefaultOrdering сортировка по умолчанию: сначала новые
const DefaultOrdering = "-registered_at"

// IsValidOrdering проверяет значение параметра ordering
func IsValidOrdering(ordering string) bool {
	_, ok := orderings[ordering]
	return ok
}

// Repository репозиторий арендаторов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория арендаторов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает арендатора
func (r *Repository) Create(ctx context.Context, t *domain.Tenant) (*domain.Tenant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("tenants").
		Columns("user_id", "name", "phone", "status", "max_bots_allowed", "admin_notes").
		Values(t.UserID, t.Name, t.Phone, t.Status, t.MaxBotsAllowed, t.AdminNotes).
		Suffix("RETURNING id, registered_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.RegisteredAt)
	if err != nil {
		switch {
		case pgerr.IsUniqueViolation(err, userIDConstraint):
			return nil, ErrTenantExists
		case pgerr.IsCheckViolation(err):
			return nil, fmt.Errorf("%w: Create: %v", ErrConstraint, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return t, nil
}

// selectDetailed SELECT арендатора с данными пользователя и счётчиками
func selectDetailed(month domain.Period) squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"t.id",
		"t.user_id",
		"t.name",
		"t.phone",
		"t.status",
		"t.max_bots_allowed",
		"t.registered_at",
		"t.last_access_at",
		"t.admin_notes",
		"u.username",
		"u.email",
		"u.first_name",
		"u.last_name",
		"(SELECT COUNT(*) FROM bots b WHERE b.tenant_id = t.id) AS bot_count",
		"(SELECT COUNT(*) FROM bots b WHERE b.tenant_id = t.id AND b.enabled) AS active_bot_count",
		"(SELECT COUNT(*) FROM reservations rs JOIN bots b ON b.id = rs.bot_id WHERE b.tenant_id = t.id) AS reservation_count",
	).
		Column(squirrel.Expr(
			"(SELECT COUNT(*) FROM reservations rs JOIN bots b ON b.id = rs.bot_id "+
				"WHERE b.tenant_id = t.id AND rs.start_at >= ? AND rs.start_at < ?) AS reservation_count_month",
			month.From, month.To,
		)).
		From("tenants t").
		Join("users u ON u.id = t.user_id")
}

// GetByID получает арендатора по ID со счётчиками
func (r *Repository) GetByID(ctx context.Context, id int64, month domain.Period) (*domain.Tenant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectDetailed(month).
		Where(squirrel.Eq{"t.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	t, err := scanDetailed(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan tenant: %v", ErrScanRow, err)
	}

	return t, nil
}

// GetForUpdate получает арендатора без счётчиков.
// Внутри транзакции блокирует строку (FOR UPDATE), чтобы сериализовать проверки квоты и статуса.
func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*domain.Tenant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(
		"id",
		"user_id",
		"name",
		"phone",
		"status",
		"max_bots_allowed",
		"registered_at",
		"last_access_at",
		"admin_notes",
	).
		From("tenants").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetForUpdate - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.Tenant
	var lastAccess sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID,
		&t.UserID,
		&t.Name,
		&t.Phone,
		&t.Status,
		&t.MaxBotsAllowed,
		&t.RegisteredAt,
		&lastAccess,
		&t.AdminNotes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetForUpdate - scan tenant: %v", ErrScanRow, err)
	}

	if lastAccess.Valid {
		t.LastAccessAt = &lastAccess.Time
	}

	return &t, nil
}

// FindIDByUserID возвращает ID арендатора пользователя или nil, если профиля нет
func (r *Repository) FindIDByUserID(ctx context.Context, userID int64) (*int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("tenants").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindIDByUserID - build select query: %v", ErrBuildQuery, err)
	}

	var id int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindIDByUserID - scan id: %v", ErrScanRow, err)
	}

	return &id, nil
}

// List возвращает страницу арендаторов и общее количество по фильтру
func (r *Repository) List(ctx context.Context, filter domain.TenantFilter) ([]*domain.Tenant, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.And{}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"t.status": *filter.Status})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"t.name": pattern},
			squirrel.ILike{"u.username": pattern},
			squirrel.ILike{"u.email": pattern},
		})
	}

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").
		From("tenants t").
		Join("users u ON u.id = t.user_id").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - count tenants: %v", ErrExecQuery, err)
	}

	ordering, ok := orderings[filter.Ordering]
	if !ok {
		ordering = orderings[DefaultOrdering]
	}

	builder := selectDetailed(filter.Month).
		Where(where).
		OrderBy(ordering, "t.id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit).Offset(filter.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	tenants := make([]*domain.Tenant, 0)
	for rows.Next() {
		t, err := scanDetailed(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: List - scan tenant: %v", ErrScanRow, err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: List - rows iteration: %v", ErrScanRow, err)
	}

	return tenants, total, nil
}

// Update обновляет редактируемые поля арендатора
func (r *Repository) Update(ctx context.Context, t *domain.Tenant) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("tenants").
		Set("name", t.Name).
		Set("phone", t.Phone).
		Set("status", t.Status).
		Set("max_bots_allowed", t.MaxBotsAllowed).
		Set("admin_notes", t.AdminNotes).
		Where(squirrel.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsCheckViolation(err) {
			return fmt.Errorf("%w: Update: %v", ErrConstraint, err)
		}
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "Update")
}

// TouchLastAccess обновляет время последнего доступа к панели
func (r *Repository) TouchLastAccess(ctx context.Context, id int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("tenants").
		Set("last_access_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: TouchLastAccess - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: TouchLastAccess - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "TouchLastAccess")
}

// Delete удаляет арендатора; боты и их данные удаляются каскадно
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("tenants").
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
		return ErrTenantNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDetailed(row rowScanner) (*domain.Tenant, error) {
	var t domain.Tenant
	var lastAccess sql.NullTime

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Name,
		&t.Phone,
		&t.Status,
		&t.MaxBotsAllowed,
		&t.RegisteredAt,
		&lastAccess,
		&t.AdminNotes,
		&t.Username,
		&t.Email,
		&t.FirstName,
		&t.LastName,
		&t.BotCount,
		&t.ActiveBotCount,
		&t.ReservationCount,
		&t.ReservationCountThisMonth,
	)
	if err != nil {
		return nil, err
	}

	if lastAccess.Valid {
		t.LastAccessAt = &lastAccess.Time
	}

	return &t, nil
}
