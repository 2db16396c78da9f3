package domain

import "github.com/shopspring/decimal"

// Service услуга, которую бот предлагает клиентам
type Service struct {
	ID          int64
	BotID       int64
	Name        string
	Description string
	Price       decimal.Decimal
}

// ServiceFilter параметры списка услуг
type ServiceFilter struct {
	BotID *int64
}
