package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"sareeledger-backend/clients"
	"sareeledger-backend/config"
	"sareeledger-backend/controllers"
	"sareeledger-backend/logger"
	"sareeledger-backend/routes"
	"sareeledger-backend/services"
	"sareeledger-backend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	appLog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer appLog.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.AuthJWTSecret == "" {
		appLog.Fatal("AUTH_JWT_SECRET not set")
	}
	if err := utils.RegisterValidators(); err != nil {
		appLog.Fatal("failed to register validators", "error", err)
	}

	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		appLog.Fatal("database unavailable", "error", err)
	}

	googleOpts, err := clients.GoogleClientOptions(cfg.GoogleCredentials)
	if err != nil {
		appLog.Fatal("invalid google credentials", "error", err)
	}

	ctx := context.Background()
	locker := newLocker(cfg, appLog)
	photoStore := newStore(ctx, appLog, cfg.PhotoBucket, cfg.PhotoCDNDomain, "photo", googleOpts)
	archiveStore := newStore(ctx, appLog, cfg.ArchiveBucket, "", "archive", googleOpts)
	recognizer := newRecognizer(ctx, cfg, appLog, googleOpts)
	defer recognizer.Close()

	messenger := clients.NewDisabledMessenger()
	if cfg.TwilioEnabled() {
		messenger = clients.NewTwilioMessenger(appLog, cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber)
	}

	settingsSvc := services.NewSettingsService(db, cfg.MonthlyGoal)
	thankYouSvc := services.NewThankYouService(db, settingsSvc, messenger, appLog)
	saleSvc := services.NewSaleService(db, locker, thankYouSvc, appLog)
	photoSvc := services.NewPhotoService(db, photoStore, appLog)
	customerSvc := services.NewCustomerService(db, locker, photoSvc, appLog)
	reportSvc := services.NewReportService(db)

	if cfg.ArchiveBucket != "" {
		job := services.NewArchiveJob(reportSvc, archiveStore, appLog)
		if err := job.Start(cfg.ArchiveSchedule); err != nil {
			appLog.Fatal("failed to schedule ledger archive", "error", err)
		}
		defer job.Stop()
	}

	r := routes.SetupRouter(cfg, appLog, routes.Handlers{
		Sales:     &controllers.SaleController{Sales: saleSvc, ThankYou: thankYouSvc},
		Customers: &controllers.CustomerController{Customers: customerSvc, Photos: photoSvc},
		Dashboard: &controllers.DashboardController{Dashboard: services.NewDashboardService(db, settingsSvc), Now: time.Now},
		Reports:   &controllers.ReportController{Reports: reportSvc, Now: time.Now},
		Settings:  &controllers.SettingsController{Settings: settingsSvc},
		OCR:       &controllers.OCRController{OCR: services.NewOCRService(recognizer, appLog)},
	})
	if cfg.Env != "production" {
		printRoutes(r)
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		appLog.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("graceful shutdown failed", "error", err)
	}
	appLog.Info("server stopped")
}

func newLocker(cfg config.AppConfig, log *logger.Logger) clients.RecordLocker {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, using in-process record locks")
		return clients.NewMemoryLocker()
	}
	rdb, err := clients.NewRedisClient(clients.RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPass})
	if err != nil {
		log.Warn("redis unavailable, using in-process record locks", "error", err)
		return clients.NewMemoryLocker()
	}
	return clients.NewRedisLocker(rdb)
}

func newStore(ctx context.Context, log *logger.Logger, bucket, cdnDomain, purpose string, opts []option.ClientOption) clients.ObjectStore {
	if bucket == "" {
		log.Info("no bucket configured, storage disabled", "purpose", purpose)
		return clients.NewDisabledStore()
	}
	store, err := clients.NewBucketStore(ctx, log, bucket, cdnDomain, opts...)
	if err != nil {
		log.Warn("storage unavailable", "purpose", purpose, "error", err)
		return clients.NewDisabledStore()
	}
	return store
}

func newRecognizer(ctx context.Context, cfg config.AppConfig, log *logger.Logger, opts []option.ClientOption) clients.TextRecognizer {
	if !cfg.VisionEnabled {
		return clients.NewDisabledRecognizer()
	}
	recognizer, err := clients.NewVisionRecognizer(ctx, log, opts...)
	if err != nil {
		log.Warn("vision unavailable, address scanning disabled", "error", err)
		return clients.NewDisabledRecognizer()
	}
	return recognizer
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
