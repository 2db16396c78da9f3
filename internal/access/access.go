package access

import (
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

var (
	// ErrAccessDenied у вызывающего нет прав на объект
	ErrAccessDenied = fmt.Errorf("%w: access: caller has no rights over the object", domain.ErrAccessDenied)

	// ErrAdminRequired операция доступна только администратору
	ErrAdminRequired = fmt.Errorf("%w: access: administrator required", domain.ErrAccessDenied)

	// ErrTenantRequired у вызывающего нет профиля арендатора
	ErrTenantRequired = fmt.Errorf("%w: access: tenant profile required", domain.ErrAccessDenied)
)

// Caller аутентифицированный пользователь, от имени которого выполняется операция.
// TenantID необязательная ссылка: у администратора профиля арендатора может не быть.
type Caller struct {
	UserID   int64
	Username string
	IsAdmin  bool
	TenantID *int64
}

// HasTenant есть ли у пользователя профиль арендатора
func (c Caller) HasTenant() bool {
	return c.TenantID != nil
}

// Scope стратегия ограничения выборок по владельцу-арендатору
type Scope interface {
	// Apply добавляет предикат по колонке арендатора.
	// false означает, что выборка заведомо пустая и запрос выполнять не нужно.
	Apply(sb squirrel.SelectBuilder, tenantColumn string) (squirrel.SelectBuilder, bool)
	// Allows разрешён ли доступ к объекту арендатора ownerTenantID
	Allows(ownerTenantID int64) bool
}

// ResolveScope выбирает стратегию по роли вызывающего
func ResolveScope(c Caller) Scope {
	switch {
	case c.IsAdmin:
		return adminScope{}
	case c.TenantID != nil:
		return tenantScope{tenantID: *c.TenantID}
	default:
		return emptyScope{}
	}
}

// Unrestricted область видимости без ограничений, для внутренних вызовов
func Unrestricted() Scope {
	return adminScope{}
}

// Authorize проверяет доступ к объекту, принадлежащему арендатору ownerTenantID
func Authorize(c Caller, ownerTenantID int64) error {
	if ResolveScope(c).Allows(ownerTenantID) {
		return nil
	}
	return ErrAccessDenied
}

// RequireAdmin пропускает только администратора
func RequireAdmin(c Caller) error {
	if !c.IsAdmin {
		return ErrAdminRequired
	}
	return nil
}

// RequireTenant возвращает ID арендатора вызывающего
func RequireTenant(c Caller) (int64, error) {
	if c.TenantID == nil {
		return 0, ErrTenantRequired
	}
	return *c.TenantID, nil
}

type adminScope struct{}

func (adminScope) Apply(sb squirrel.SelectBuilder, _ string) (squirrel.SelectBuilder, bool) {
	return sb, true
}

func (adminScope) Allows(int64) bool {
	return true
}

type tenantScope struct {
	tenantID int64
}

func (s tenantScope) Apply(sb squirrel.SelectBuilder, tenantColumn string) (squirrel.SelectBuilder, bool) {
	return sb.Where(squirrel.Eq{tenantColumn: s.tenantID}), true
}

func (s tenantScope) Allows(ownerTenantID int64) bool {
	return s.tenantID == ownerTenantID
}

// emptyScope пользователь без профиля арендатора и без прав администратора
type emptyScope struct{}

func (emptyScope) Apply(sb squirrel.SelectBuilder, _ string) (squirrel.SelectBuilder, bool) {
	return sb, false
}

func (emptyScope) Allows(int64) bool {
	return false
}
