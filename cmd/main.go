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
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_appointment"
	createProcedureHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_procedure"
	createRoleHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_role"
	createStaffEventHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_staff_event"
	deleteAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/delete_appointment"
	deleteProcedureHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/delete_procedure"
	deleteRoleHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/delete_role"
	deleteStaffEventHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/delete_staff_event"
	getAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_appointment"
	getFreeSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_free_slots"
	getMyAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_my_appointments"
	getProcedureHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_procedure"
	getScheduleHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_schedule"
	listAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_appointments"
	listProceduresHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_procedures"
	listRolesHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_roles"
	listStaffEventsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_staff_events"
	resetScheduleHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/reset_schedule"
	updateAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_appointment"
	updateProcedureHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_procedure"
	updateScheduleHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_schedule"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	procedureRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/procedure"
	roleRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/role"
	scheduleRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/schedule"
	staffEventRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/staffevent"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/eventbus"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/mailer"
	appointmentsService "github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	"github.com/m04kA/SMC-SalonBooking/internal/service/authz"
	calendarService "github.com/m04kA/SMC-SalonBooking/internal/service/calendar"
	"github.com/m04kA/SMC-SalonBooking/internal/service/guard"
	notifierService "github.com/m04kA/SMC-SalonBooking/internal/service/notifier"
	proceduresService "github.com/m04kA/SMC-SalonBooking/internal/service/procedures"
	reconcilerService "github.com/m04kA/SMC-SalonBooking/internal/service/reconciler"
	rolesService "github.com/m04kA/SMC-SalonBooking/internal/service/roles"
	scheduleService "github.com/m04kA/SMC-SalonBooking/internal/service/schedule"
	staffEventsService "github.com/m04kA/SMC-SalonBooking/internal/service/staffevents"
	createAppointmentUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_appointment"
	getFreeSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_free_slots"
	updateAppointmentUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/update_appointment"
	"github.com/m04kA/SMC-SalonBooking/migrations"
	"github.com/m04kA/SMC-SalonBooking/pkg/daylock"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-SalonBooking...")

	location, err := cfg.Schedule.Location()
	if err != nil {
		log.Fatal("Invalid timezone %q: %v", cfg.Schedule.Timezone, err)
	}

	// Инициализируем метрики (если включены)
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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Migrations.Enabled {
		if err := migrations.Up(context.Background(), db); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

	// Без метрик обертка только пробрасывает запросы
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	staffEventRepository := staffEventRepo.NewRepository(wrappedDB)
	procedureRepository := procedureRepo.NewRepository(wrappedDB)
	roleRepository := roleRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)

	// Блокировка дня категории: Redis для нескольких инстансов, иначе в памяти процесса
	var locker daylock.Locker
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		locker = daylock.NewRedisLocker(
			redisClient,
			time.Duration(cfg.Redis.LockTTLSeconds)*time.Second,
			time.Duration(cfg.Redis.LockWaitSeconds)*time.Second,
		)
		log.Info("Day locks backed by redis (addr=%s)", cfg.Redis.Addr)
	} else {
		locker = daylock.NewLocalLocker()
		log.Info("Day locks are process-local")
	}

	// Уведомления
	var mailSender notifierService.Mailer
	switch cfg.Mail.Provider {
	case "sendgrid":
		mailSender, err = mailer.NewSendGridSender(mailer.Config{
			APIKey:    cfg.Mail.APIKey,
			FromEmail: cfg.Mail.FromEmail,
			FromName:  cfg.Mail.FromName,
		}, log)
		if err != nil {
			log.Fatal("Failed to init sendgrid: %v", err)
		}
	default:
		mailSender = mailer.NewStubSender(log)
	}

	type closablePublisher interface {
		notifierService.Publisher
		Close() error
	}
	var publisher closablePublisher = eventbus.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := eventbus.NewKafkaPublisher(eventbus.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		if err != nil {
			log.Fatal("Failed to init kafka publisher: %v", err)
		}
		publisher = kafkaPublisher
		log.Info("Appointment events published to kafka topic %s", cfg.Kafka.Topic)
	}

	notifier := notifierService.NewService(mailSender, publisher, notifierService.Config{
		SalonName: cfg.Mail.SalonName,
		Location:  location,
	}, log)

	// Инициализируем сервисы
	oracle := authz.NewOracle()
	defaults := domain.WorkingHours{
		StartHour:          cfg.Schedule.WorkStartHour,
		EndHour:            cfg.Schedule.WorkEndHour,
		GranularityMinutes: cfg.Schedule.GranularityMinutes,
		Location:           location,
	}

	scheduleSvc := scheduleService.NewService(scheduleRepository, roleRepository, oracle, defaults, log)
	calendarSvc := calendarService.NewService(appointmentRepository, staffEventRepository)
	reconciler := reconcilerService.NewService(calendarSvc, staffEventRepository, scheduleSvc, metricsCollector, log)
	writeGuard := guard.NewGuard(locker, txMgr, log)
	scheduleSvc.SetMarkerRefresher(reconcilerService.NewRefresher(
		calendarSvc, writeGuard, reconciler, scheduleSvc, cfg.Schedule.RefreshHorizonDays, log,
	))

	rolesSvc := rolesService.NewService(roleRepository, procedureRepository, oracle, log)
	if err := rolesSvc.EnsureDefaults(context.Background()); err != nil {
		log.Fatal("Failed to seed default roles: %v", err)
	}

	proceduresSvc := proceduresService.NewService(procedureRepository, appointmentRepository, roleRepository, oracle, log)
	staffEventsSvc := staffEventsService.NewService(staffEventRepository, writeGuard, reconciler, scheduleSvc, oracle, log)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		writeGuard,
		reconciler,
		scheduleSvc,
		oracle,
		notifier,
		metricsCollector,
		cfg.Schedule.CancellationCutoff(),
		log,
	)

	// Инициализируем use cases
	getFreeSlotsUseCase := getFreeSlotsUC.NewUseCase(procedureRepository, calendarSvc, scheduleSvc, metricsCollector, log)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		procedureRepository,
		calendarSvc,
		writeGuard,
		reconciler,
		scheduleSvc,
		oracle,
		notifier,
		metricsCollector,
		log,
	)
	updateAppointmentUseCase := updateAppointmentUC.NewUseCase(
		appointmentRepository,
		procedureRepository,
		calendarSvc,
		writeGuard,
		reconciler,
		scheduleSvc,
		oracle,
		notifier,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getFreeSlots := getFreeSlotsHandler.NewHandler(getFreeSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	updateAppointment := updateAppointmentHandler.NewHandler(updateAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, location, log)
	getMyAppointments := getMyAppointmentsHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentsSvc, log)

	listStaffEvents := listStaffEventsHandler.NewHandler(staffEventsSvc, location, log)
	createStaffEvent := createStaffEventHandler.NewHandler(staffEventsSvc, log)
	deleteStaffEvent := deleteStaffEventHandler.NewHandler(staffEventsSvc, log)

	listProcedures := listProceduresHandler.NewHandler(proceduresSvc, log)
	getProcedure := getProcedureHandler.NewHandler(proceduresSvc, log)
	createProcedure := createProcedureHandler.NewHandler(proceduresSvc, log)
	updateProcedure := updateProcedureHandler.NewHandler(proceduresSvc, log)
	deleteProcedure := deleteProcedureHandler.NewHandler(proceduresSvc, log)

	listRoles := listRolesHandler.NewHandler(rolesSvc, log)
	createRole := createRoleHandler.NewHandler(rolesSvc, log)
	deleteRole := deleteRoleHandler.NewHandler(rolesSvc, log)

	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	resetSchedule := resetScheduleHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	authenticator := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	optional := func(h http.HandlerFunc) http.Handler {
		return authenticator.OptionalAuth(h)
	}

	// ============================================================
	// PUBLIC ROUTES (токен необязателен)
	// ============================================================

	api.Handle("/free-slots", optional(getFreeSlots.Handle)).Methods(http.MethodGet)
	api.Handle("/appointments", optional(createAppointment.Handle)).Methods(http.MethodPost)
	api.Handle("/staff-events", optional(listStaffEvents.Handle)).Methods(http.MethodGet)
	api.Handle("/procedures", optional(listProcedures.Handle)).Methods(http.MethodGet)
	api.Handle("/procedures/{id}", optional(getProcedure.Handle)).Methods(http.MethodGet)
	api.Handle("/roles", optional(listRoles.Handle)).Methods(http.MethodGet)
	api.HandleFunc("/schedules/{serviceCategory}", getSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (Bearer JWT)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(authenticator.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/my", getMyAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", updateAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{id}", deleteAppointment.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/appointments/{id}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// --- Отпуска и блоки ---
	protected.HandleFunc("/staff-events", createStaffEvent.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/staff-events/{id}", deleteStaffEvent.Handle).Methods(http.MethodDelete)

	// --- Каталог процедур ---
	protected.HandleFunc("/procedures", createProcedure.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/procedures/{id}", updateProcedure.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/procedures/{id}", deleteProcedure.Handle).Methods(http.MethodDelete)

	// --- Администрирование ---
	protected.HandleFunc("/roles", createRole.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/roles/{id}", deleteRole.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/schedules/{serviceCategory}", updateSchedule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/schedules/{serviceCategory}", resetSchedule.Handle).Methods(http.MethodDelete)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся уведомлений, поставленных в отправку до остановки
	notifier.Wait()
	if err := publisher.Close(); err != nil {
		log.Error("Failed to close event publisher: %v", err)
	}

	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
