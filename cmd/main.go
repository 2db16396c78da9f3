package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-BotAdminService/internal/api/handlers"
	authHandler "github.com/m04kA/SMC-BotAdminService/internal/api/handlers/auth"
	botsHandler "github.com/m04kA/SMC-BotAdminService/internal/api/handlers/bots"
	dashboardHandler "github.com/m04kA/SMC-BotAdminService/internal/api/handlers/dashboard"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BotAdminService/internal/api/handlers/get_available_slots"
	reservationsHandler "github.com/m04kA/SMC-BotAdminService/internal/api/handlers/reservations"
	schedulesHandler "github.com/m04kA/SMC-BotAdminService/internal/api/handlers/schedules"
	servicesHandler "github.com/m04kA/SMC-BotAdminService/internal/api/handlers/services"
	tenantsHandler "github.com/m04kA/SMC-BotAdminService/internal/api/handlers/tenants"
	"github.com/m04kA/SMC-BotAdminService/internal/api/middleware"
	"github.com/m04kA/SMC-BotAdminService/internal/config"
	botRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/bot"
	catalogRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BotAdminService/internal/infra/storage/migrations"
	reservationRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/reservation"
	scheduleRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/schedule"
	statsRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/stats"
	tenantRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/tenant"
	userRepo "github.com/m04kA/SMC-BotAdminService/internal/infra/storage/user"
	"github.com/m04kA/SMC-BotAdminService/internal/infra/tokenstore"
	authService "github.com/m04kA/SMC-BotAdminService/internal/service/auth"
	botsService "github.com/m04kA/SMC-BotAdminService/internal/service/bots"
	catalogService "github.com/m04kA/SMC-BotAdminService/internal/service/catalog"
	dashboardService "github.com/m04kA/SMC-BotAdminService/internal/service/dashboard"
	reservationsService "github.com/m04kA/SMC-BotAdminService/internal/service/reservations"
	schedulesService "github.com/m04kA/SMC-BotAdminService/internal/service/schedules"
	tenantsService "github.com/m04kA/SMC-BotAdminService/internal/service/tenants"
	createBotUC "github.com/m04kA/SMC-BotAdminService/internal/usecase/create_bot"
	createReservationUC "github.com/m04kA/SMC-BotAdminService/internal/usecase/create_reservation"
	getAvailableSlotsUC "github.com/m04kA/SMC-BotAdminService/internal/usecase/get_available_slots"
	updateTenantUC "github.com/m04kA/SMC-BotAdminService/internal/usecase/update_tenant"
	"github.com/m04kA/SMC-BotAdminService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BotAdminService/pkg/jwtauth"
	"github.com/m04kA/SMC-BotAdminService/pkg/logger"
	"github.com/m04kA/SMC-BotAdminService/pkg/metrics"
	"github.com/m04kA/SMC-BotAdminService/pkg/txmanager"
)

const configPath = "config.toml"

// tokenStore хранилище отозванных токенов
type tokenStore interface {
	authService.TokenStore
	Close() error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-BotAdminService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone %q: %v", cfg.Booking.Timezone, err)
	}

	// Инициализируем метрики (если включены). nil отключает сбор в dbmetrics и middleware.
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		if err := migrations.Apply(context.Background(), db, log); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Хранилище отозванных токенов
	var revoked tokenStore = tokenstore.NopStore{}
	if cfg.Redis.Enabled {
		redisStore, err := tokenstore.NewRedisStore(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis at %s: %v", cfg.Redis.Addr, err)
		}
		revoked = redisStore
		log.Info("Token revocation store connected (redis=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
	} else {
		log.Warn("Redis disabled: logout will not revoke tokens")
	}
	defer revoked.Close()

	// Инициализируем репозитории
	userRepository := userRepo.NewRepository(wrappedDB)
	tenantRepository := tenantRepo.NewRepository(wrappedDB)
	botRepository := botRepo.NewRepository(wrappedDB)
	serviceRepository := catalogRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	statsRepository := statsRepo.NewRepository(wrappedDB)

	issuer := jwtauth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTLDuration())

	// Инициализируем сервисы
	authSvc := authService.NewService(userRepository, tenantRepository, issuer, revoked, location, log)
	tenantSvc := tenantsService.NewService(
		tenantRepository,
		userRepository,
		botRepository,
		statsRepository,
		txMgr,
		location,
		log,
	)
	botSvc := botsService.NewService(botRepository, tenantRepository, txMgr, log)
	catalogSvc := catalogService.NewService(serviceRepository, botRepository, log)
	scheduleSvc := schedulesService.NewService(scheduleRepository, botRepository, log)
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		botRepository,
		serviceRepository,
		reservationsService.Options{
			Location:                  location,
			DefaultDuration:           cfg.Booking.DefaultDuration(),
			EnforceCancellationWindow: cfg.Booking.EnforceCancellationWindow,
		},
		log,
	)
	dashboardSvc := dashboardService.NewService(statsRepository, tenantRepository, txMgr, location, log)

	// Инициализируем use cases
	createBotUseCase := createBotUC.NewUseCase(tenantRepository, botRepository, txMgr, log)
	updateTenantUseCase := updateTenantUC.NewUseCase(tenantRepository, botRepository, txMgr, log)
	createReservationUseCase := createReservationUC.NewUseCase(
		botRepository,
		serviceRepository,
		reservationRepository,
		txMgr,
		location,
		cfg.Booking.DefaultDuration(),
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		botRepository,
		scheduleRepository,
		reservationRepository,
		location,
		cfg.Booking.DefaultDuration(),
		log,
	)

	// Инициализируем handlers
	authH := authHandler.NewHandler(authSvc, log)
	dashboardH := dashboardHandler.NewHandler(dashboardSvc, log)
	tenantsH := tenantsHandler.NewHandler(tenantSvc, botSvc, updateTenantUseCase, createBotUseCase, log)
	botsH := botsHandler.NewHandler(botSvc, createBotUseCase, log)
	servicesH := servicesHandler.NewHandler(catalogSvc, log)
	schedulesH := schedulesHandler.NewHandler(scheduleSvc, log)
	reservationsH := reservationsHandler.NewHandler(reservationSvc, createReservationUseCase, log)
	getAvailableSlotsH := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Logging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", healthHandler(db)).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/auth/login", authH.Login).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют Authorization: Bearer <token>)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(authSvc, log))

	// --- Сессия и панель ---
	protected.HandleFunc("/auth/logout", authH.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", authH.Me).Methods(http.MethodGet)
	protected.HandleFunc("/dashboard/config", dashboardH.Config).Methods(http.MethodGet)
	protected.HandleFunc("/dashboard/admin", dashboardH.Admin).Methods(http.MethodGet)
	protected.HandleFunc("/dashboard/tenant", dashboardH.Tenant).Methods(http.MethodGet)

	// --- Арендаторы (только администратор) ---
	// /tenants/stats регистрируется раньше /tenants/{tenantId}
	protected.HandleFunc("/tenants", tenantsH.List).Methods(http.MethodGet)
	protected.HandleFunc("/tenants", tenantsH.Provision).Methods(http.MethodPost)
	protected.HandleFunc("/tenants/stats", tenantsH.Stats).Methods(http.MethodGet)
	protected.HandleFunc("/tenants/{tenantId:[0-9]+}", tenantsH.Get).Methods(http.MethodGet)
	protected.HandleFunc("/tenants/{tenantId:[0-9]+}", tenantsH.Update).Methods(http.MethodPut)
	protected.HandleFunc("/tenants/{tenantId:[0-9]+}", tenantsH.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/tenants/{tenantId:[0-9]+}/status", tenantsH.ChangeStatus).Methods(http.MethodPost)
	protected.HandleFunc("/tenants/{tenantId:[0-9]+}/bot-limit", tenantsH.UpdateBotLimit).Methods(http.MethodPost)
	protected.HandleFunc("/tenants/{tenantId:[0-9]+}/activity", tenantsH.Activity).Methods(http.MethodGet)
	protected.HandleFunc("/tenants/{tenantId:[0-9]+}/bots", tenantsH.ListBots).Methods(http.MethodGet)
	protected.HandleFunc("/tenants/{tenantId:[0-9]+}/bots", tenantsH.CreateBot).Methods(http.MethodPost)
	protected.HandleFunc("/tenants/{tenantId:[0-9]+}/bots/{botId:[0-9]+}/block", tenantsH.ToggleBlock).Methods(http.MethodPost)

	// --- Боты ---
	protected.HandleFunc("/bots", botsH.List).Methods(http.MethodGet)
	protected.HandleFunc("/bots", botsH.Create).Methods(http.MethodPost)
	protected.HandleFunc("/bots/{botId}", botsH.Get).Methods(http.MethodGet)
	protected.HandleFunc("/bots/{botId}", botsH.Update).Methods(http.MethodPut)
	protected.HandleFunc("/bots/{botId}", botsH.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/bots/{botId}/available-slots", getAvailableSlotsH.Handle).Methods(http.MethodGet)

	// --- Услуги ---
	protected.HandleFunc("/services", servicesH.List).Methods(http.MethodGet)
	protected.HandleFunc("/services", servicesH.Create).Methods(http.MethodPost)
	protected.HandleFunc("/services/{serviceId}", servicesH.Get).Methods(http.MethodGet)
	protected.HandleFunc("/services/{serviceId}", servicesH.Update).Methods(http.MethodPut)
	protected.HandleFunc("/services/{serviceId}", servicesH.Delete).Methods(http.MethodDelete)

	// --- Расписание ---
	protected.HandleFunc("/schedules", schedulesH.List).Methods(http.MethodGet)
	protected.HandleFunc("/schedules", schedulesH.Create).Methods(http.MethodPost)
	protected.HandleFunc("/schedules/{scheduleId}", schedulesH.Get).Methods(http.MethodGet)
	protected.HandleFunc("/schedules/{scheduleId}", schedulesH.Update).Methods(http.MethodPut)
	protected.HandleFunc("/schedules/{scheduleId}", schedulesH.Delete).Methods(http.MethodDelete)

	// --- Бронирования ---
	protected.HandleFunc("/reservations", reservationsH.List).Methods(http.MethodGet)
	protected.HandleFunc("/reservations", reservationsH.Create).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", reservationsH.Get).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}", reservationsH.Replace).Methods(http.MethodPut)
	protected.HandleFunc("/reservations/{reservationId}", reservationsH.UpdateStatus).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}", reservationsH.Delete).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
