package create_bot

import (
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-BotAdminService/internal/access"
	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

// validateRequest проверяет поля бота
func validateRequest(req *Request) error {
	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > domain.MaxNameLength {
		return ErrInvalidName
	}

	phoneID := strings.TrimSpace(req.WhatsAppPhoneID)
	if phoneID == "" || utf8.RuneCountInString(phoneID) > domain.MaxPhoneIDLength {
		return ErrInvalidPhoneID
	}

	return nil
}

// resolveTenant определяет арендатора, для которого создаётся бот.
// Владелец создаёт только для себя, администратор для любого арендатора.
func resolveTenant(req *Request) (int64, error) {
	caller := req.Caller

	if caller.IsAdmin {
		if req.TenantID != nil {
			return *req.TenantID, nil
		}
		if caller.TenantID != nil {
			return *caller.TenantID, nil
		}
		return 0, ErrTenantNotSpecified
	}

	own, err := access.RequireTenant(caller)
	if err != nil {
		return 0, err
	}
	if req.TenantID != nil && *req.TenantID != own {
		return 0, access.ErrAccessDenied
	}

	return own, nil
}
