package models

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BotAdminService/internal/domain"
)

// ServiceRequest создание или полная замена услуги
type ServiceRequest struct {
	BotID       int64           `json:"bot_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// ServiceResponse услуга
type ServiceResponse struct {
	ID          int64           `json:"id"`
	BotID       int64           `json:"bot_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// ServiceListResponse список услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
	Total    int               `json:"total"`
}

// ToDomain конвертирует запрос в услугу
func (r *ServiceRequest) ToDomain() *domain.Service {
	return &domain.Service{
		BotID:       r.BotID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price.Round(2),
	}
}

// FromDomainService конвертирует услугу в ответ
func FromDomainService(s *domain.Service) *ServiceResponse {
	return &ServiceResponse{
		ID:          s.ID,
		BotID:       s.BotID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
	}
}

// FromDomainServiceList конвертирует список услуг
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{Services: make([]ServiceResponse, 0, len(services)), Total: len(services)}
	for _, s := range services {
		resp.Services = append(resp.Services, *FromDomainService(s))
	}
	return resp
}
