package create_reservation

import (
	"strings"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

// validateRequest проверяет контактные данные клиента
func validateRequest(req *Request) error {
	return domain.ValidateCustomer(req.CustomerName, req.CustomerPhone, req.Notes)
}

// resolveStatus статус по умолчанию confirmed, явно можно запросить pending
func resolveStatus(raw string) (domain.ReservationStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.ReservationStatusConfirmed, nil
	}

	status, err := domain.ParseReservationStatus(raw)
	if err != nil {
		return "", ErrInvalidStatus
	}
	if status != domain.ReservationStatusConfirmed && status != domain.ReservationStatusPending {
		return "", ErrInvalidStatus
	}

	return status, nil
}
