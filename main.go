package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/IT22091352/wasana-products/internal/api"
	"github.com/IT22091352/wasana-products/internal/cache"
	"github.com/IT22091352/wasana-products/internal/config"
	"github.com/IT22091352/wasana-products/internal/db"
	"github.com/IT22091352/wasana-products/internal/diag"
	"github.com/IT22091352/wasana-products/internal/email"
	"github.com/IT22091352/wasana-products/internal/services"
	"github.com/IT22091352/wasana-products/internal/store"
	filestore "github.com/IT22091352/wasana-products/internal/store/file"
	"github.com/IT22091352/wasana-products/internal/store/mongodb"
	"github.com/IT22091352/wasana-products/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'worker', 'all' (default), 'diag' (connection diagnostics), 'encodepw' (password URL encoder)")

// buildStores connects the configured storage backend. In auto mode a failed
// MongoDB connection falls back to flat files with a warning; in mongo mode
// it is fatal; in file mode MongoDB is never touched. Returns a cleanup
// function for the Mongo client, if any.
func buildStores(cfg *config.Config) (store.Stores, func(), error) {
	noop := func() {}

	if cfg.StorageMode != config.StorageModeFile {
		mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
		if err == nil {
			inquiries := mongodb.NewInquiryStore(mongoDb)
			users := mongodb.NewUserStore(mongoDb)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := inquiries.EnsureIndexes(ctx); err != nil {
				log.Printf("Warning: failed to ensure inquiry indexes: %v", err)
			}
			if err := users.EnsureIndexes(ctx); err != nil {
				log.Printf("Warning: failed to ensure user indexes: %v", err)
			}

			cleanup := func() {
				if err := db.DisconnectDB(mongoClient); err != nil {
					log.Printf("Error disconnecting from MongoDB: %v", err)
				}
			}
			log.Println("Using MongoDB storage")
			return store.Stores{Inquiries: inquiries, Users: users}, cleanup, nil
		}

		if cfg.StorageMode == config.StorageModeMongo {
			return store.Stores{}, noop, fmt.Errorf("STORAGE_MODE=mongo and connection failed: %w", err)
		}
		log.Printf("WARNING: MongoDB unreachable (%v), falling back to file storage in %s", err, cfg.DataDir)
	}

	inquiries, err := filestore.NewInquiryStore(cfg.DataDir)
	if err != nil {
		return store.Stores{}, noop, fmt.Errorf("failed to initialize file inquiry store: %w", err)
	}
	users, err := filestore.NewUserStore(cfg.DataDir)
	if err != nil {
		return store.Stores{}, noop, fmt.Errorf("failed to initialize file user store: %w", err)
	}
	log.Printf("Using file storage in %s", cfg.DataDir)
	return store.Stores{Inquiries: inquiries, Users: users}, noop, nil
}

// buildEmailSender assembles the composite sender: Redis capture under
// MOCK_SERVICES, SMTP (or logging when unconfigured) otherwise, plus an
// optional file log via LOG_EMAILS.
func buildEmailSender(cfg *config.Config, redisClient *redis.Client) email.Sender {
	var primary email.Sender
	if os.Getenv("MOCK_SERVICES") == "true" && redisClient != nil {
		log.Println("MOCK_SERVICES enabled: Using Redis email sender.")
		primary = email.NewRedisSender(redisClient, cfg)
	} else {
		primary = email.NewSMTPSender(cfg)
	}

	composite := email.NewCompositeEmailSender(primary)

	if logEmailsPath := os.Getenv("LOG_EMAILS"); logEmailsPath != "" {
		fileSender, err := email.NewFileEmailSender(logEmailsPath)
		if err != nil {
			log.Printf("WARNING: Failed to initialize file email sender (LOG_EMAILS=%q): %v. Proceeding without file logging.", logEmailsPath, err)
		} else {
			composite.AddSender(fileSender)
			log.Printf("LOG_EMAILS set, appending raw messages to %s", logEmailsPath)
		}
	}

	return composite
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*runMode)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Utility modes run and exit before any server wiring.
	switch cfg.RunMode {
	case "diag":
		if err := diag.Run(context.Background(), cfg.MongoURI, os.Stdout); err != nil {
			os.Exit(1)
		}
		return
	case "encodepw":
		if err := diag.RunEncoder(os.Stdin, os.Stdout); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	stores, closeStores, err := buildStores(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer closeStores()

	// Redis is optional: without it notifications go out inline and the
	// worker cannot run.
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Printf("WARNING: Redis unreachable (%v), inquiry notifications will be sent inline", err)
		redisClient = nil
	} else {
		defer func() {
			if err := cache.DisconnectRedis(redisClient); err != nil {
				log.Printf("Error disconnecting from Redis: %v", err)
			}
		}()
	}

	emailSender := buildEmailSender(cfg, redisClient)

	var notifier services.Notifier
	var taskClient *asynq.Client
	if redisClient != nil {
		taskClient = tasks.NewClient(redisClient)
		defer taskClient.Close()
		notifier = tasks.NewQueueNotifier(taskClient)
	} else {
		notifier = tasks.NewDirectNotifier(cfg, emailSender)
	}

	taskProcessor := tasks.NewTaskProcessor(cfg, emailSender, stores.Inquiries)

	var wg sync.WaitGroup

	// Channel to signal shutdown from the Service API
	shutdownChan := make(chan struct{}, 1)

	var serviceSrv *http.Server
	if redisClient != nil {
		serviceRouter := api.SetupServiceRouter(redisClient, shutdownChan)
		serviceSrv = &http.Server{
			Addr:    ":" + cfg.ServiceApiPort,
			Handler: serviceRouter,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Printf("Service API listening on :%s", cfg.ServiceApiPort)
			if err := serviceSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Service API ListenAndServe error: %v", err)
			}
		}()
	}

	var mainApiSrv *http.Server
	var workerSrv *asynq.Server

	log.Printf("Starting application in '%s' mode...", cfg.RunMode)

	apiMode := func() {
		mainApiRouter := api.SetupRouter(cfg, stores, notifier)
		mainApiSrv = &http.Server{
			Addr:    ":" + cfg.ApiPort,
			Handler: mainApiRouter,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Printf("API listening on :%s", cfg.ApiPort)
			if err := mainApiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("API ListenAndServe error: %v", err)
			}
		}()
	}

	workerMode := func(required bool) {
		if redisClient == nil {
			if required {
				log.Fatal("Worker mode requires Redis; set REDIS_ADDR or run with -m api")
			}
			log.Println("Skipping worker: Redis unavailable, notifications are inline")
			return
		}
		workerSrv = tasks.SetupServer(redisClient)
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Println("Background worker starting...")
			if err := workerSrv.Run(taskProcessor.Mux()); err != nil {
				log.Fatalf("Background worker error: %v", err)
			}
		}()
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "worker":
		workerMode(true)
	case "all":
		apiMode()
		workerMode(false)
	default:
		log.Fatalf("Invalid run mode: %s", cfg.RunMode)
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("Received signal: %s. Shutting down gracefully...", sig)
	case <-shutdownChan:
		log.Println("Shutdown requested via Service API. Shutting down gracefully...")
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if serviceSrv != nil {
		if err := serviceSrv.Shutdown(ctxShutdown); err != nil {
			log.Printf("Service API server shutdown error: %v", err)
		}
	}
	if mainApiSrv != nil {
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
	}
	if workerSrv != nil {
		workerSrv.Shutdown()
	}

	wg.Wait()
	log.Println("Server gracefully stopped")
}
