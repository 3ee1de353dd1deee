// Package bootstrap is the composition root: it builds the store selected
// by configuration, the repositories over it and every application handler.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/alem-hub/course-registry/config"
	"github.com/alem-hub/course-registry/internal/application/command"
	"github.com/alem-hub/course-registry/internal/application/query"
	"github.com/alem-hub/course-registry/internal/infrastructure/messaging"
	"github.com/alem-hub/course-registry/internal/infrastructure/metrics"
	"github.com/alem-hub/course-registry/internal/infrastructure/persistence/flatfile"
	"github.com/alem-hub/course-registry/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/course-registry/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/course-registry/internal/infrastructure/scheduler"
	"github.com/alem-hub/course-registry/internal/infrastructure/scheduler/jobs"
	"github.com/alem-hub/course-registry/internal/interface/console"
	apihttp "github.com/alem-hub/course-registry/internal/interface/http"
	"github.com/alem-hub/course-registry/pkg/circuitbreaker"
	"github.com/alem-hub/course-registry/pkg/logger"
	"github.com/alem-hub/course-registry/pkg/retry"
	"github.com/alem-hub/course-registry/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONTAINER
// ══════════════════════════════════════════════════════════════════════════════

// Container holds every wired component.
type Container struct {
	Config   *config.Config
	Logger   *logger.Logger
	Clock    timeutil.Clock
	EventBus *messaging.InMemoryEventBus
	Metrics  *metrics.Metrics

	// Jobs is nil when no background job is configured.
	Jobs *scheduler.Scheduler

	// Repositories
	Students    *flatfile.StudentRepository
	Courses     *flatfile.CourseRepository
	Enrollments *flatfile.EnrollmentRepository

	// Commands
	CreateStudent       *command.CreateStudentHandler
	DeleteStudent       *command.DeleteStudentHandler
	CreateCourse        *command.CreateCourseHandler
	DeleteCourse        *command.DeleteCourseHandler
	EnrollStudent       *command.EnrollStudentHandler
	CancelEnrollment    *command.CancelEnrollmentHandler
	DeleteEnrollment    *command.DeleteEnrollmentHandler
	CompleteEnrollments *command.CompleteEnrollmentsHandler

	// Queries
	ListStudents    *query.ListStudentsHandler
	GetStudent      *query.GetStudentHandler
	ListCourses     *query.ListCoursesHandler
	GetCourse       *query.GetCourseHandler
	ListEnrollments *query.ListEnrollmentsHandler
	GetEnrollment   *query.GetEnrollmentHandler

	healthChecks map[string]apihttp.HealthCheckFunc
	closers      []func()
}

// Option overrides a default component.
type Option func(*Container)

// WithClock replaces the system clock.
func WithClock(clock timeutil.Clock) Option {
	return func(c *Container) { c.Clock = clock }
}

// New builds a Container from cfg. Close must be called when done.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts ...Option) (*Container, error) {
	if log == nil {
		log = logger.Nop()
	}

	c := &Container{
		Config:       cfg,
		Logger:       log,
		Clock:        timeutil.SystemClock{Location: cfg.Location()},
		EventBus:     messaging.NewInMemoryEventBus(log),
		healthChecks: make(map[string]apihttp.HealthCheckFunc),
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.Observability.MetricsEnabled {
		c.Metrics = metrics.New()
	}

	if err := c.subscribe(); err != nil {
		return nil, err
	}

	store, err := c.openStore(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	if err := c.openRepositories(ctx, store); err != nil {
		c.Close()
		return nil, err
	}

	c.buildHandlers()

	if err := c.buildJobs(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the store connection and the event bus.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
	_ = c.EventBus.Close()
}

// ══════════════════════════════════════════════════════════════════════════════
// WIRING
// ══════════════════════════════════════════════════════════════════════════════

func (c *Container) subscribe() error {
	if err := c.EventBus.SubscribeAll(messaging.AuditHandler(c.Logger)); err != nil {
		return fmt.Errorf("subscribe audit: %w", err)
	}
	if c.Metrics != nil {
		if err := c.EventBus.SubscribeAll(c.Metrics.CountEvent); err != nil {
			return fmt.Errorf("subscribe metrics: %w", err)
		}
	}
	return nil
}

// openStore connects the backend named by the configuration.
func (c *Container) openStore(ctx context.Context) (flatfile.LineStore, error) {
	cfg := c.Config

	switch cfg.Storage.Backend {
	case config.BackendFile:
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		c.healthChecks["storage"] = func(context.Context) error {
			_, err := os.Stat(cfg.Storage.DataDir)
			return err
		}
		c.Logger.Info("using file storage", logger.String("dir", cfg.Storage.DataDir))
		return flatfile.NewFileStore(cfg.Storage.DataDir), nil

	case config.BackendPostgres:
		pool := postgres.PoolOptions{
			MaxConns:        int32(cfg.Database.MaxOpenConns),
			MinConns:        int32(cfg.Database.MaxIdleConns),
			MaxConnLifetime: cfg.Database.ConnMaxLifetime,
			MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		}
		conn, err := retry.DoWithData(ctx, func(ctx context.Context) (*postgres.Connection, error) {
			return postgres.NewConnectionFromURL(ctx, cfg.Database.URL, pool)
		}, c.retryOptions("postgres")...)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		c.closers = append(c.closers, conn.Close)

		migrator := postgres.NewMigrator(conn)
		if err := migrator.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		c.healthChecks["storage"] = conn.Ping
		c.healthChecks["migrations"] = migrator.Check
		c.Logger.Info("using postgres storage")
		return c.guard(postgres.NewLineStore(conn), "postgres"), nil

	case config.BackendRedis:
		redisCfg := redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			KeyPrefix:    cfg.Redis.KeyPrefix,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}
		client, err := retry.DoWithData(ctx, func(context.Context) (*goredis.Client, error) {
			return redis.NewClient(redisCfg)
		}, c.retryOptions("redis")...)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() { _ = client.Close() })
		c.healthChecks["storage"] = pingRedis(client)
		c.Logger.Info("using redis storage", logger.String("prefix", cfg.Redis.KeyPrefix))
		return c.guard(redis.NewLineStore(client, cfg.Redis.KeyPrefix), "redis"), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func (c *Container) retryOptions(backend string) []retry.Option {
	return []retry.Option{
		retry.WithMaxAttempts(c.Config.Storage.ConnectAttempts),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			c.Logger.Warn("storage connection failed, retrying",
				logger.String("backend", backend),
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Err(err),
			)
		}),
	}
}

// guard fails storage calls fast while a remote backend keeps erroring.
func (c *Container) guard(store flatfile.LineStore, backend string) flatfile.LineStore {
	return flatfile.NewGuardedStore(store, backend,
		circuitbreaker.WithFailureThreshold(c.Config.Storage.BreakerThreshold),
		circuitbreaker.WithCoolDown(c.Config.Storage.BreakerCoolDown),
		circuitbreaker.WithOnStateChange(func(name string, from, to circuitbreaker.State) {
			c.Logger.Warn("storage circuit changed state",
				logger.String("backend", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
	)
}

func pingRedis(client goredis.UniversalClient) apihttp.HealthCheckFunc {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

func (c *Container) openRepositories(ctx context.Context, store flatfile.LineStore) error {
	opts := []flatfile.Option{flatfile.WithLogger(c.Logger)}
	if c.Metrics != nil {
		opts = append(opts, flatfile.WithObserver(c.Metrics))
	}

	var err error
	if c.Students, err = flatfile.NewStudentRepository(ctx, store, c.Config.Storage.StudentsResource, opts...); err != nil {
		return err
	}
	if c.Courses, err = flatfile.NewCourseRepository(ctx, store, c.Config.Storage.CoursesResource, opts...); err != nil {
		return err
	}
	if c.Enrollments, err = flatfile.NewEnrollmentRepository(ctx, store, c.Config.Storage.EnrollmentsResource, opts...); err != nil {
		return err
	}
	return nil
}

func (c *Container) buildHandlers() {
	log, bus := c.Logger, c.EventBus

	c.CreateStudent = command.NewCreateStudentHandler(c.Students, bus, log)
	c.DeleteStudent = command.NewDeleteStudentHandler(c.Students, c.Enrollments, bus, log)
	c.CreateCourse = command.NewCreateCourseHandler(c.Courses, bus, log)
	c.DeleteCourse = command.NewDeleteCourseHandler(c.Courses, c.Enrollments, bus, log)
	c.EnrollStudent = command.NewEnrollStudentHandler(c.Students, c.Courses, c.Enrollments, c.Clock, bus, log)
	c.CancelEnrollment = command.NewCancelEnrollmentHandler(c.Enrollments, bus, log)
	c.DeleteEnrollment = command.NewDeleteEnrollmentHandler(c.Enrollments, bus, log)
	c.CompleteEnrollments = command.NewCompleteEnrollmentsHandler(c.Courses, c.Enrollments, c.Clock, bus, log)

	c.ListStudents = query.NewListStudentsHandler(c.Students)
	c.GetStudent = query.NewGetStudentHandler(c.Students)
	c.ListCourses = query.NewListCoursesHandler(c.Courses)
	c.GetCourse = query.NewGetCourseHandler(c.Courses)
	c.ListEnrollments = query.NewListEnrollmentsHandler(c.Students, c.Courses, c.Enrollments)
	c.GetEnrollment = query.NewGetEnrollmentHandler(c.Students, c.Courses, c.Enrollments)
}

func (c *Container) buildJobs() error {
	sc := c.Config.Scheduler
	if !sc.JobsEnabled() {
		return nil
	}

	var schedule scheduler.Schedule = scheduler.IntervalSchedule{Interval: sc.CompleteEnrollmentsEvery}
	if sc.CompleteEnrollmentsAt != "" {
		daily, err := scheduler.ParseDaily(sc.CompleteEnrollmentsAt)
		if err != nil {
			return err
		}
		schedule = daily
	}

	cfg := scheduler.Config{Logger: c.Logger, Location: c.Config.Location()}
	if c.Metrics != nil {
		cfg.OnResult = func(r scheduler.JobResult) {
			c.Metrics.ObserveJob(r.JobName, r.Duration, r.Error)
		}
	}
	c.Jobs = scheduler.New(cfg)
	return c.Jobs.Register(jobs.NewCompleteEnrollmentsJob(c.CompleteEnrollments, c.Logger), schedule)
}

// StartJobs starts the scheduler, if any. With COMPLETE_ENROLLMENTS_ON_START
// every registered job also runs once before StartJobs returns; a failed
// catch-up run is logged and does not stop the scheduler.
func (c *Container) StartJobs(ctx context.Context) error {
	if c.Jobs == nil {
		return nil
	}
	if err := c.Jobs.Start(ctx); err != nil {
		return err
	}
	if !c.Config.Scheduler.RunOnStart {
		return nil
	}

	for _, info := range c.Jobs.Jobs() {
		if _, err := c.Jobs.RunNow(ctx, info.Name); err != nil {
			c.Logger.Warn("catch-up run failed", logger.String("job", info.Name), logger.Err(err))
			continue
		}
		c.Logger.Info("catch-up run finished",
			logger.String("job", info.Name),
			logger.Time("next_run", info.NextRun),
		)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CALLERS
// ══════════════════════════════════════════════════════════════════════════════

// HTTPDependencies returns the handlers the REST API needs.
func (c *Container) HTTPDependencies() apihttp.Dependencies {
	return apihttp.Dependencies{
		CreateStudent:       c.CreateStudent,
		DeleteStudent:       c.DeleteStudent,
		CreateCourse:        c.CreateCourse,
		DeleteCourse:        c.DeleteCourse,
		EnrollStudent:       c.EnrollStudent,
		CancelEnrollment:    c.CancelEnrollment,
		DeleteEnrollment:    c.DeleteEnrollment,
		CompleteEnrollments: c.CompleteEnrollments,
		ListStudents:        c.ListStudents,
		GetStudent:          c.GetStudent,
		ListCourses:         c.ListCourses,
		GetCourse:           c.GetCourse,
		ListEnrollments:     c.ListEnrollments,
		GetEnrollment:       c.GetEnrollment,
		Metrics:             c.Metrics,
		HealthChecks:        c.healthChecks,
		Version:             c.Config.App.Version,
		Logger:              c.Logger,
	}
}

// HTTPConfig returns the server settings.
func (c *Container) HTTPConfig() apihttp.Config {
	return apihttp.Config{
		Addr:         c.Config.HTTP.Addr,
		ReadTimeout:  c.Config.HTTP.ReadTimeout,
		WriteTimeout: c.Config.HTTP.WriteTimeout,
		IdleTimeout:  c.Config.HTTP.IdleTimeout,
	}
}

// ConsoleHandlers returns the handlers the interactive menu needs.
func (c *Container) ConsoleHandlers() console.Handlers {
	return console.Handlers{
		CreateStudent:       c.CreateStudent,
		DeleteStudent:       c.DeleteStudent,
		CreateCourse:        c.CreateCourse,
		DeleteCourse:        c.DeleteCourse,
		EnrollStudent:       c.EnrollStudent,
		CancelEnrollment:    c.CancelEnrollment,
		DeleteEnrollment:    c.DeleteEnrollment,
		CompleteEnrollments: c.CompleteEnrollments,
		ListStudents:        c.ListStudents,
		ListCourses:         c.ListCourses,
		ListEnrollments:     c.ListEnrollments,
	}
}

// NewLogger builds the process logger from the observability settings.
func NewLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	opts.Format = logger.ParseFormat(cfg.Observability.LogFormat)
	return logger.New(opts).With(
		logger.String("app", cfg.App.Name),
		logger.String("env", string(cfg.App.Environment)),
	)
}
