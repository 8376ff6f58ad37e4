package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/budgetwise/budgetwise/internal/advisor"
	"github.com/budgetwise/budgetwise/internal/api/handlers"
	"github.com/budgetwise/budgetwise/internal/api/middleware"
	infraBQ "github.com/budgetwise/budgetwise/internal/infra/bigquery"
	"github.com/budgetwise/budgetwise/internal/jobs"
	"github.com/budgetwise/budgetwise/internal/jobs/inmemory"
	"github.com/budgetwise/budgetwise/internal/logger"
	"github.com/budgetwise/budgetwise/internal/storage"
)

func main() {
	var (
		port   = flag.String("port", "8080", "HTTP server port")
		bucket = flag.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket name for receipt uploads (or set GCS_BUCKET env)")
		model  = flag.String("model", "", "Gemini model name (defaults to "+advisor.DefaultModelName+")")
	)
	flag.Parse()

	log := logger.New()

	if *bucket == "" {
		log.Warn().Msg("No GCS bucket configured - receipt uploads will be disabled")
	}

	ctx := context.Background()

	store, err := infraBQ.NewRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create store")
	}
	defer store.Close()

	objects := storage.NewGCSStore(*bucket)
	adv := advisor.New(*model)

	// Job infrastructure: receipt extraction runs in-process.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		extractJob, ok := job.(*jobs.ExtractReceiptJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", extractJob.JobID).
			Str("receipt_uri", extractJob.ReceiptURI).
			Msg("Processing extraction job")

		imageBytes, err := objects.Fetch(ctx, extractJob.ReceiptURI)
		if err != nil {
			return fmt.Errorf("fetching receipt: %w", err)
		}

		categoryRows, err := store.ListCategoriesByUser(ctx, extractJob.UserID)
		if err != nil {
			return fmt.Errorf("listing categories: %w", err)
		}
		categories := make([]string, 0, len(categoryRows))
		for _, row := range categoryRows {
			categories = append(categories, row.Name)
		}

		candidates, err := adv.ExtractReceipt(ctx, imageBytes, extractJob.MIMEType, categories)
		if err != nil {
			return err
		}
		extractJob.Candidates = candidates

		log.Info().
			Str("job_id", extractJob.JobID).
			Int("candidates", len(candidates)).
			Msg("Extraction completed")
		return nil
	}

	go func() {
		log.Info().Msg("Starting extraction worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Extraction worker stopped with error")
		}
	}()

	accountsHandler := handlers.NewAccountsHandler(store, log)
	transactionsHandler := handlers.NewTransactionsHandler(store, log)
	snapshotsHandler := handlers.NewSnapshotsHandler(store, log)
	categoriesHandler := handlers.NewCategoriesHandler(store, log)
	balancesHandler := handlers.NewBalancesHandler(store, log)
	receiptsHandler := handlers.NewReceiptsHandler(objects, jobQueue, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)
	adviceHandler := handlers.NewAdviceHandler(store, adv, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/accounts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			accountsHandler.List(w, r)
		case http.MethodPost:
			accountsHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/accounts/", func(w http.ResponseWriter, r *http.Request) {
		accountID := strings.TrimPrefix(r.URL.Path, "/api/accounts/")
		if accountID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Account ID is required")
			return
		}
		switch r.Method {
		case http.MethodGet:
			accountsHandler.Get(w, r, accountID)
		case http.MethodPut:
			accountsHandler.Update(w, r, accountID)
		case http.MethodDelete:
			accountsHandler.Delete(w, r, accountID)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			transactionsHandler.List(w, r)
		case http.MethodPost:
			transactionsHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/", func(w http.ResponseWriter, r *http.Request) {
		transactionID := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
		if transactionID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Transaction ID is required")
			return
		}
		switch r.Method {
		case http.MethodPut:
			transactionsHandler.Update(w, r, transactionID)
		case http.MethodDelete:
			transactionsHandler.Delete(w, r, transactionID)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/snapshots", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			snapshotsHandler.List(w, r)
		case http.MethodPost:
			snapshotsHandler.Upsert(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/snapshots/", func(w http.ResponseWriter, r *http.Request) {
		snapshotID := strings.TrimPrefix(r.URL.Path, "/api/snapshots/")
		if snapshotID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Snapshot ID is required")
			return
		}
		if r.Method != http.MethodDelete {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		snapshotsHandler.Delete(w, r, snapshotID)
	})

	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			categoriesHandler.List(w, r)
		case http.MethodPost:
			categoriesHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/categories/", func(w http.ResponseWriter, r *http.Request) {
		categoryID := strings.TrimPrefix(r.URL.Path, "/api/categories/")
		if categoryID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Category ID is required")
			return
		}
		switch r.Method {
		case http.MethodPut:
			categoriesHandler.Rename(w, r, categoryID)
		case http.MethodDelete:
			categoriesHandler.Delete(w, r, categoryID)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/balances/current", requireGet(balancesHandler.Current))
	mux.HandleFunc("/api/balances/on-date", requireGet(balancesHandler.OnDate))
	mux.HandleFunc("/api/balances/chart", requireGet(balancesHandler.Chart))
	mux.HandleFunc("/api/balances/chart.png", requireGet(balancesHandler.ChartPNG))

	mux.HandleFunc("/api/receipts/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		receiptsHandler.Upload(w, r)
	})

	mux.HandleFunc("/api/receipts/extract", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		receiptsHandler.Extract(w, r)
	})

	mux.HandleFunc("/api/jobs", requireGet(jobsHandler.ListJobs))

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
		if jobID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
			return
		}
		jobsHandler.GetJob(w, r, jobID)
	})

	mux.HandleFunc("/api/advice", requireGet(adviceHandler.Get))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.Auth(mux),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

func requireGet(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h(w, r)
	}
}
