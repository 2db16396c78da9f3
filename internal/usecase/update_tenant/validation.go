package update_tenant

import (
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

// validateRequest проверяет поля, не требующие чтения из БД
func validateRequest(req *Request) error {
	if req.Name == nil && req.Phone == nil && req.AdminNotes == nil && req.Status == nil && req.MaxBotsAllowed == nil {
		return ErrNothingToUpdate
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || utf8.RuneCountInString(name) > domain.MaxNameLength {
			return ErrInvalidName
		}
	}

	if req.Phone != nil && utf8.RuneCountInString(strings.TrimSpace(*req.Phone)) > domain.MaxPhoneLength {
		return ErrInvalidPhone
	}

	if req.Status != nil && !domain.TenantStatus(*req.Status).IsValid() {
		return ErrInvalidStatus
	}

	if req.MaxBotsAllowed != nil && *req.MaxBotsAllowed < 0 {
		return ErrNegativeBotLimit
	}

	return nil
}

// apply переносит изменения запроса на арендатора
func apply(t *domain.Tenant, req *Request) {
	if req.Name != nil {
		t.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		t.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.AdminNotes != nil {
		t.AdminNotes = *req.AdminNotes
	}
	if req.Status != nil {
		t.Status = domain.TenantStatus(*req.Status)
	}
	if req.MaxBotsAllowed != nil {
		t.MaxBotsAllowed = *req.MaxBotsAllowed
	}
}
