package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dna-clinic-go/internal/auth"
	"dna-clinic-go/internal/config"
	"dna-clinic-go/internal/db"
	"dna-clinic-go/internal/domain/booking"
	"dna-clinic-go/internal/domain/cascade"
	"dna-clinic-go/internal/domain/catalog"
	"dna-clinic-go/internal/domain/course"
	"dna-clinic-go/internal/domain/feedback"
	"dna-clinic-go/internal/domain/invoice"
	"dna-clinic-go/internal/domain/kit"
	"dna-clinic-go/internal/domain/notification"
	"dna-clinic-go/internal/domain/relative"
	"dna-clinic-go/internal/domain/result"
	"dna-clinic-go/internal/domain/stats"
	"dna-clinic-go/internal/domain/user"
	"dna-clinic-go/internal/jobs"
	"dna-clinic-go/internal/mail"
	"dna-clinic-go/internal/report"
	"dna-clinic-go/internal/repository/inmemory"
	bookingrepo "dna-clinic-go/internal/repository/postgres/booking"
	cascaderepo "dna-clinic-go/internal/repository/postgres/cascade"
	catalogrepo "dna-clinic-go/internal/repository/postgres/catalog"
	courserepo "dna-clinic-go/internal/repository/postgres/course"
	feedbackrepo "dna-clinic-go/internal/repository/postgres/feedback"
	invoicerepo "dna-clinic-go/internal/repository/postgres/invoice"
	kitrepo "dna-clinic-go/internal/repository/postgres/kit"
	notificationrepo "dna-clinic-go/internal/repository/postgres/notification"
	relativerepo "dna-clinic-go/internal/repository/postgres/relative"
	resultrepo "dna-clinic-go/internal/repository/postgres/result"
	statsrepo "dna-clinic-go/internal/repository/postgres/stats"
	userrepo "dna-clinic-go/internal/repository/postgres/user"
	rediscache "dna-clinic-go/internal/repository/redis"
	"dna-clinic-go/internal/storage"
	"dna-clinic-go/internal/transport/httpserver"
	"dna-clinic-go/internal/transport/httpserver/handler"
	"dna-clinic-go/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const resetSweepTimeout = 10 * time.Second

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	redis      *goredis.Client
	users      *user.Service
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn, log); err != nil {
		closeDB(dbConn)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	a := &App{cfg: cfg, log: log, db: dbConn}

	var cache catalog.Cache = inmemory.NewInMemoryCatalogCache()
	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := rediscache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		cancel()
		if err != nil {
			log.Warn("app: redis unavailable, using in-memory catalog cache", "addr", cfg.Redis.Addr, "err", err)
		} else {
			log.Info("app: redis catalog cache enabled", "addr", cfg.Redis.Addr)
			a.redis = client
			cache = rediscache.NewCatalogCache(client, log)
		}
	}

	deleter := cascade.NewDeleter(cascaderepo.NewPostgres(dbConn), log)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	userOpts := []user.Option{
		user.WithLogger(log),
		user.WithResetPolicy(cfg.Reset.CodeTTL, cfg.Reset.CodeFallback),
	}
	if cfg.Auth.GoogleClientID != "" {
		userOpts = append(userOpts, user.WithGoogle(auth.NewGoogleVerifier(cfg.Auth.GoogleClientID)))
	}
	mailer, err := mail.NewSMTPMailer(cfg.Mail, log)
	switch {
	case err == nil:
		userOpts = append(userOpts, user.WithMailer(mailer))
	case errors.Is(err, mail.ErrNotConfigured):
		log.Warn("app: smtp not configured, reset codes will not be mailed")
	default:
		a.Close()
		return nil, fmt.Errorf("mailer: %w", err)
	}

	notifications := notification.NewService(notificationrepo.NewPostgres(dbConn), deleter)
	a.users = user.NewService(userrepo.NewPostgres(dbConn), deleter, auth.Bcrypt{}, tokens, userOpts...)

	services := handler.Services{
		Users:         a.users,
		Catalog:       catalog.NewService(catalogrepo.NewPostgres(dbConn), deleter, catalog.WithCache(cache, cfg.Redis.CatalogCacheTTL)),
		Bookings:      booking.NewService(bookingrepo.NewPostgres(dbConn), deleter, booking.WithNotifier(notifications, log)),
		Kits:          kit.NewService(kitrepo.NewPostgres(dbConn), deleter),
		Results:       result.NewService(resultrepo.NewPostgres(dbConn), deleter, report.NewPDFRenderer()),
		Invoices:      invoice.NewService(invoicerepo.NewPostgres(dbConn), deleter),
		Relatives:     relative.NewService(relativerepo.NewPostgres(dbConn), deleter),
		Feedbacks:     feedback.NewService(feedbackrepo.NewPostgres(dbConn), deleter),
		Notifications: notifications,
		Courses:       course.NewService(courserepo.NewPostgres(dbConn), deleter),
		Stats:         stats.NewService(statsrepo.NewPostgres(dbConn)),
	}

	images, err := storage.NewLocal(cfg.StaticDir, cfg.UploadMax)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}

	log.Info("app: initializing router")
	handlers := handler.New(services, images, cfg.UploadMax, log)
	router := httpserver.NewRouter(cfg, handlers, tokens, images.Dir(), log)

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router)
	return a, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// StartJobs launches background work bound to ctx. The returned channel
// closes once every job has stopped.
func (a *App) StartJobs(ctx context.Context) <-chan struct{} {
	return jobs.StartResetSweepJob(ctx, a.cfg.Reset.SweepInterval, resetSweepTimeout, a.users, a.log)
}

func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.db != nil {
		if err := closeDB(a.db); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	return errors.Join(errs...)
}

func closeDB(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
