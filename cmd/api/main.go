package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"Hyeyum_Board/internal/config"
	"Hyeyum_Board/internal/pkg"
	"Hyeyum_Board/internal/repository/mysql"
	"Hyeyum_Board/internal/repository/redis"
	"Hyeyum_Board/internal/router"
	"Hyeyum_Board/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	log.SetReportCaller(true)

	if err := godotenv.Load(); err != nil {
		log.WithError(err).Info("Failed to load .env file. If you want to use real envvars, you can ignore this diag safely.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
		log.SetLevel(log.DebugLevel)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Secret == "" {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.WithError(err).Fatal("Failed to generate session secret")
		}
		cfg.Secret = hex.EncodeToString(secret)
		log.Warn("BOARD_SECRET is not set; sessions will not survive a restart")
	}

	// 第一次用到数据库时才连接
	store := mysql.NewHandle(func() (*gorm.DB, error) {
		dsn, err := cfg.DSN()
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn)
	})
	defer store.Close()

	users := mysql.NewUserRepository(store)
	posts := mysql.NewPostRepository(store)
	logs := mysql.NewLogRepository(store)

	var events service.EventPublisher
	if cfg.KafkaEnabled() {
		producer := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		defer producer.Close()
		events = producer
	}
	audit := service.NewAuditService(logs, events)

	authOpts := []service.AuthOption{service.WithAdminPassword(cfg.AdminPassword)}
	var cache service.PostCache
	if cfg.RedisEnabled() {
		rdb, err := redis.NewClient(cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.WithError(err).Warn("Redis is unreachable; running without lock and cache")
		} else {
			defer rdb.Close()
			authOpts = append(authOpts, service.WithLocker(redis.NewDistLock(rdb)))
			cache = redis.NewPostListCache(rdb)
		}
	}
	if cfg.MailEnabled() {
		mailer := pkg.NewMailer(pkg.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		authOpts = append(authOpts, service.WithSignupNotice(mailer, cfg.AdminNotify))
	}
	auth := service.NewAuthService(users, audit, authOpts...)

	sessionStore, err := router.NewSessionStore(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize session store")
	}
	r, err := router.InitRouter(router.Options{
		Locale:   cfg.Locale,
		Sessions: sessionStore,
		Auth:     auth,
		Board:    service.NewBoardService(posts, audit, cache),
		Admin:    service.NewAdminService(users, logs),
		Health:   store,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to load templates")
	}

	srv := &http.Server{
		Addr:              cfg.Bind,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		log.WithField("addr", cfg.Bind).Info("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shut down gracefully")
	}
	audit.Wait()
	auth.Wait()
}
