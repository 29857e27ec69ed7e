package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"techsetu-website-api/config"
	"techsetu-website-api/database"
	"techsetu-website-api/handlers"
	"techsetu-website-api/middleware"
	"techsetu-website-api/queue"
	"techsetu-website-api/services/auth"
	"techsetu-website-api/services/email"
	"techsetu-website-api/services/location"
	"techsetu-website-api/services/payment"
	"techsetu-website-api/services/subscription"
	"techsetu-website-api/worker"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")

		// Answer preflights immediately
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		// Log only slow requests and errors
		elapsed := time.Since(start)
		if elapsed > 500*time.Millisecond || wrapper.status >= 400 {
			log.Printf(
				"%s %s %s %d %v",
				r.Method,
				r.RequestURI,
				r.RemoteAddr,
				wrapper.status,
				elapsed,
			)
		}
	})
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds | log.LUTC)

	numCPU := runtime.NumCPU()
	runtime.GOMAXPROCS(numCPU)
	log.Printf("Server starting with %d CPUs available", numCPU)

	cfg := config.Load()
	log.Printf("Configuration loaded successfully")

	// Connect to the database with retry
	var db *database.Connection
	var err error
	for retries := 0; retries < 5; retries++ {
		db, err = database.NewConnection(cfg.Database)
		if err == nil {
			break
		}
		retryDelay := time.Duration(retries+1) * time.Second
		log.Printf("Failed to connect to database (attempt %d/5): %v. Retrying in %v...",
			retries+1, err, retryDelay)
		time.Sleep(retryDelay)
	}

	if err != nil {
		log.Fatalf("Failed to connect to database after retries: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.GetDB().PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Successfully connected to database")

	// Redis-backed job queue for receipts, lead notifications and
	// order reconciliation
	jobQueue, err := queue.NewQueue(cfg.Redis.URL, "website_jobs")
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer jobQueue.Close()
	log.Println("Successfully connected to Redis")

	// Services
	paymentService := payment.NewPaymentService(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	emailService := email.NewSMTPService(cfg.SMTP)
	subscriptionService := subscription.NewSubscriptionService(db)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, db)
	resolver := location.NewResolver(cfg.GeoIP)

	if !paymentService.GatewayAvailable() {
		log.Println("Warning: Razorpay credentials missing, checkout will be unavailable")
	}

	// Background worker with a bounded number of threads
	workerConcurrency := cfg.Redis.WorkerConcurrency
	if workerConcurrency < 2 {
		workerConcurrency = 2
	} else if workerConcurrency > 8 {
		workerConcurrency = 8
	}

	jobWorker := worker.NewWorker(jobQueue, db, emailService)
	jobWorker.Start(workerConcurrency)
	defer jobWorker.Stop()
	log.Printf("Started job worker with %d threads", workerConcurrency)

	// Seed the recurring stale-order sweep; the worker reschedules it after
	// each run.
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := jobQueue.Enqueue(seedCtx, queue.JobTypeReconcileOrders, nil); err != nil {
		log.Printf("Failed to seed order reconciliation job: %v", err)
	}
	seedCancel()

	// Session store carries the checkout attempt id between requests
	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		Domain:   cfg.Session.Domain,
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	rateLimiter, err := middleware.NewRateLimiter(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Failed to initialize rate limiter: %v", err)
	}
	defer rateLimiter.Close()

	// Handlers
	planHandler := handlers.NewPlanHandler(db)
	pricingHandler := handlers.NewPricingHandler(resolver)
	authHandler := handlers.NewAuthHandler(jwtService)
	contactHandler := handlers.NewContactHandler(db, jobQueue)
	subscribeHandler := handlers.NewSubscribeHandler(db, jobQueue, paymentService,
		subscriptionService, resolver, sessionStore)

	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(loggingMiddleware)
	router.Use(middleware.SecurityHeadersMiddleware)
	router.Use(rateLimiter.RateLimitMiddleware())

	api := router.PathPrefix("/api").Subrouter()

	// Catalog and pricing
	api.HandleFunc("/plans", planHandler.GetPlans).Methods("GET", "OPTIONS")
	api.HandleFunc("/pricing", pricingHandler.GetPricing).Methods("GET", "OPTIONS")
	api.HandleFunc("/tax-message", pricingHandler.GetTaxMessage).Methods("GET", "OPTIONS")
	api.HandleFunc("/location", pricingHandler.GetLocation).Methods("GET", "OPTIONS")

	// Authentication
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/validate", authHandler.Validate).Methods("GET", "OPTIONS")

	// Subscribe flow: start, poll, then settle through callback or dismiss
	optionalAuth := middleware.OptionalAuth(jwtService)
	api.Handle("/subscribe", optionalAuth(http.HandlerFunc(subscribeHandler.StartSubscribe))).Methods("POST", "OPTIONS")
	api.HandleFunc("/subscribe/status", subscribeHandler.SubscribeStatus).Methods("GET", "OPTIONS")
	api.HandleFunc("/payment/callback", subscribeHandler.PaymentCallback).Methods("POST", "OPTIONS")
	api.HandleFunc("/payment/dismiss", subscribeHandler.PaymentDismiss).Methods("POST", "OPTIONS")

	// Lead funnel
	api.HandleFunc("/contact", contactHandler.SubmitContact).Methods("POST", "OPTIONS")

	startTime := time.Now()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		health := struct {
			Status    string `json:"status"`
			Time      string `json:"time"`
			Database  string `json:"database"`
			Redis     string `json:"redis"`
			Gateway   string `json:"gateway"`
			Uptime    string `json:"uptime"`
			GoVersion string `json:"go_version"`
		}{
			Status:    "ok",
			Time:      time.Now().Format(time.RFC3339),
			Database:  "connected",
			Redis:     "connected",
			Gateway:   "configured",
			Uptime:    fmt.Sprintf("%v", time.Since(startTime)),
			GoVersion: runtime.Version(),
		}

		dbCtx, dbCancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer dbCancel()

		if err := db.GetDB().PingContext(dbCtx); err != nil {
			health.Status = "degraded"
			health.Database = "error"
		}

		redisCtx, redisCancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer redisCancel()

		if err := jobQueue.Client().Ping(redisCtx).Err(); err != nil {
			health.Status = "degraded"
			health.Redis = "error"
		}

		if !paymentService.GatewayAvailable() {
			health.Status = "degraded"
			health.Gateway = "unconfigured"
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	}).Methods("GET")

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	<-stop
	log.Println("Shutdown signal received, gracefully shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	log.Println("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Stopping job worker...")
	jobWorker.Stop()

	// Let in-flight jobs drain
	time.Sleep(2 * time.Second)

	log.Println("Closing database connections...")
	db.Close()

	log.Println("Closing Redis connections...")
	jobQueue.Close()

	log.Println("Server exited properly")
}
