package bot

import "errors"

var (
	// ErrBotNotFound возвращается, когда бот не найден (или вне области видимости)
	ErrBotNotFound = errors.New("bot.repository: bot not found")

	// ErrPhoneIDTaken WhatsApp phone id уже используется другим ботом
	ErrPhoneIDTaken = errors.New("bot.repository: whatsapp phone id already in use")

	// ErrTenantNotFound арендатор, указанный для бота, не существует
	ErrTenantNotFound = errors.New("bot.repository: tenant not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("bot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("bot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("bot.repository: failed to scan row")
)
