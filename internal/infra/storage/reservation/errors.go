package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrSlotTaken у бота уже есть бронирование с таким временем начала
	ErrSlotTaken = errors.New("reservation.repository: slot already taken")

	// ErrReferenceNotFound бот или услуга, на которые ссылается бронирование, не существуют
	ErrReferenceNotFound = errors.New("reservation.repository: referenced bot or service not found")

	// ErrInvalidRange время окончания не позже времени начала
	ErrInvalidRange = errors.New("reservation.repository: end must be after start")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
