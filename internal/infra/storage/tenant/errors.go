package tenant

import "errors"

var (
	// ErrTenantNotFound возвращается, когда арендатор не найден
	ErrTenantNotFound = errors.New("tenant.repository: tenant not found")

	// ErrTenantExists у пользователя уже есть профиль арендатора
	ErrTenantExists = errors.New("tenant.repository: user already has a tenant profile")

	// ErrConstraint нарушено ограничение таблицы (статус, квота)
	ErrConstraint = errors.New("tenant.repository: constraint violation")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("tenant.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("tenant.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("tenant.repository: failed to scan row")
)
