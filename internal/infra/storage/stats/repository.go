package stats

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
	"github.com/m04kA/SMC-BotAdminService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BotAdminService/pkg/psqlbuilder"
)

// Repository агрегирующие запросы для дашбордов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория статистики
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// AdminSnapshot сводка по всей платформе
func (r *Repository) AdminSnapshot(ctx context.Context, period domain.SnapshotPeriod) (*domain.AdminSnapshot, error) {
	var s domain.AdminSnapshot

	err := r.queryRow(ctx, "AdminSnapshot users",
		psqlbuilder.Select(
			"COUNT(*)",
			"COUNT(*) FILTER (WHERE is_active)",
			"COUNT(*) FILTER (WHERE is_staff)",
		).
			Column(squirrel.Expr("COUNT(*) FILTER (WHERE date_joined >= ?)", period.RecentSince)).
			From("users"),
		&s.Users.Total, &s.Users.Active, &s.Users.Staff, &s.Recent.NewUsers,
	)
	if err != nil {
		return nil, err
	}

	err = r.queryRow(ctx, "AdminSnapshot tenants",
		psqlbuilder.Select(
			"COUNT(*)",
			"COUNT(*) FILTER (WHERE t.status = 'active')",
			"COUNT(*) FILTER (WHERE t.status = 'suspended')",
			"COUNT(*) FILTER (WHERE t.status = 'inactive')",
			"COUNT(*) FILTER (WHERE EXISTS (SELECT 1 FROM bots b WHERE b.tenant_id = t.id))",
		).
			Column(squirrel.Expr("COUNT(*) FILTER (WHERE t.registered_at >= ?)", period.RecentSince)).
			From("tenants t"),
		&s.Tenants.Total, &s.Tenants.Active, &s.Tenants.Suspended, &s.Tenants.Inactive,
		&s.Tenants.WithBots, &s.Recent.NewTenants,
	)
	if err != nil {
		return nil, err
	}

	err = r.queryRow(ctx, "AdminSnapshot bots",
		psqlbuilder.Select(
			"COUNT(*)",
			"COUNT(*) FILTER (WHERE enabled)",
			"COUNT(*) FILTER (WHERE NOT enabled)",
			"COUNT(*) FILTER (WHERE blocked)",
		).From("bots"),
		&s.Bots.Total, &s.Bots.Active, &s.Bots.Inactive, &s.Bots.Blocked,
	)
	if err != nil {
		return nil, err
	}

	err = r.queryRow(ctx, "AdminSnapshot reservations",
		selectBreakdown("reservations r").
			Column(squirrel.Expr("COUNT(*) FILTER (WHERE r.created_at >= ?)", period.RecentSince)),
		&s.Reservations.Total, &s.Reservations.Confirmed, &s.Reservations.Pending, &s.Reservations.Cancelled,
		&s.Recent.NewReservations,
	)
	if err != nil {
		return nil, err
	}

	s.TopTenants, err = r.topTenants(ctx, domain.TopTenantsLimit)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// TenantSnapshot сводка по ботам и бронированиям одного арендатора
func (r *Repository) TenantSnapshot(ctx context.Context, tenantID int64, period domain.SnapshotPeriod) (*domain.TenantSnapshot, error) {
	var s domain.TenantSnapshot

	err := r.queryRow(ctx, "TenantSnapshot bots",
		psqlbuilder.Select(
			"COUNT(*)",
			"COUNT(*) FILTER (WHERE enabled)",
			"COUNT(*) FILTER (WHERE NOT enabled)",
		).
			From("bots").
			Where(squirrel.Eq{"tenant_id": tenantID}),
		&s.Bots.Total, &s.Bots.Active, &s.Bots.Inactive,
	)
	if err != nil {
		return nil, err
	}

	current, previous := period.CurrentMonth(), period.PreviousMonth()

	err = r.queryRow(ctx, "TenantSnapshot reservations",
		selectBreakdown("reservations r").
			Column(squirrel.Expr("COUNT(*) FILTER (WHERE r.start_at >= ? AND r.start_at < ?)", current.From, current.To)).
			Column(squirrel.Expr("COUNT(*) FILTER (WHERE r.start_at >= ? AND r.start_at < ?)", previous.From, previous.To)).
			Join("bots b ON b.id = r.bot_id").
			Where(squirrel.Eq{"b.tenant_id": tenantID}),
		&s.Reservations.Total, &s.Reservations.Confirmed, &s.Reservations.Pending, &s.Reservations.Cancelled,
		&s.Reservations.ThisMonth, &s.Reservations.LastMonth,
	)
	if err != nil {
		return nil, err
	}

	s.Upcoming, err = r.upcoming(ctx, tenantID, period, domain.UpcomingLimit)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// TenantsOverview агрегаты по арендаторам для раздела управления
func (r *Repository) TenantsOverview(ctx context.Context, period domain.SnapshotPeriod) (*domain.TenantsOverview, error) {
	var o domain.TenantsOverview

	err := r.queryRow(ctx, "TenantsOverview",
		psqlbuilder.Select(
			"COUNT(*)",
			"COUNT(*) FILTER (WHERE status = 'active')",
			"COUNT(*) FILTER (WHERE status = 'suspended')",
			"COUNT(*) FILTER (WHERE status = 'inactive')",
			"COALESCE((SELECT COUNT(*) FROM bots)::float8 / NULLIF(COUNT(*), 0), 0)",
		).
			Column(squirrel.Expr("COUNT(*) FILTER (WHERE registered_at >= ?)", period.RecentSince)).
			From("tenants"),
		&o.Total, &o.Active, &o.Suspended, &o.Inactive, &o.AverageBots, &o.NewLast30Days,
	)
	if err != nil {
		return nil, err
	}

	o.TopByBookings, err = r.topTenants(ctx, domain.TopTenantsLimit)
	if err != nil {
		return nil, err
	}

	return &o, nil
}

func selectBreakdown(from string) squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE r.status = 'confirmed')",
		"COUNT(*) FILTER (WHERE r.status = 'pending')",
		"COUNT(*) FILTER (WHERE r.status = 'cancelled')",
	).From(from)
}

func (r *Repository) topTenants(ctx context.Context, limit uint64) ([]domain.TenantRanking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"t.id",
		"t.name",
		"(SELECT COUNT(*) FROM reservations rs JOIN bots b ON b.id = rs.bot_id WHERE b.tenant_id = t.id) AS total_reservations",
		"(SELECT COUNT(*) FROM bots b WHERE b.tenant_id = t.id) AS bot_count",
	).
		From("tenants t").
		OrderBy("total_reservations DESC", "t.id ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: topTenants - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: topTenants - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ranking := make([]domain.TenantRanking, 0, limit)
	for rows.Next() {
		var t domain.TenantRanking
		if err := rows.Scan(&t.TenantID, &t.Name, &t.TotalReservations, &t.BotCount); err != nil {
			return nil, fmt.Errorf("%w: topTenants - scan row: %v", ErrScanRow, err)
		}
		ranking = append(ranking, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: topTenants - rows iteration: %v", ErrScanRow, err)
	}

	return ranking, nil
}

func (r *Repository) upcoming(ctx context.Context, tenantID int64, period domain.SnapshotPeriod, limit uint64) ([]domain.UpcomingReservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("r.id", "b.name", "r.customer_name", "r.start_at", "r.status", "s.name").
		From("reservations r").
		Join("bots b ON b.id = r.bot_id").
		LeftJoin("services s ON s.id = r.service_id").
		Where(squirrel.Eq{"b.tenant_id": tenantID}).
		Where(squirrel.Gt{"r.start_at": period.Now}).
		Where(squirrel.Eq{"r.status": domain.ActiveReservationStatuses}).
		OrderBy("r.start_at ASC", "r.id ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: upcoming - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: upcoming - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.UpcomingReservation, 0, limit)
	for rows.Next() {
		var u domain.UpcomingReservation
		var serviceName sql.NullString
		if err := rows.Scan(&u.ID, &u.BotName, &u.CustomerName, &u.StartAt, &u.Status, &serviceName); err != nil {
			return nil, fmt.Errorf("%w: upcoming - scan row: %v", ErrScanRow, err)
		}
		if serviceName.Valid {
			u.ServiceName = &serviceName.String
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: upcoming - rows iteration: %v", ErrScanRow, err)
	}

	return result, nil
}

func (r *Repository) queryRow(ctx context.Context, op string, builder squirrel.SelectBuilder, dest ...interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(dest...); err != nil {
		return fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
	}

	return nil
}
