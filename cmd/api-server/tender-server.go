package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"tenderbolt/db"
	"tenderbolt/db/migrations"
	"tenderbolt/internal/config"
	"tenderbolt/internal/handlers"
	"tenderbolt/internal/httpx"
	"tenderbolt/internal/llm"
	"tenderbolt/internal/logging"
	"tenderbolt/internal/notify"
	"tenderbolt/internal/ratelimit"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Database.DSN == "" {
		logger.Fatal("POSTGRES_CONN env variable is not set")
	}

	dbConn, err := sqlx.Connect("postgres", cfg.Database.DSN)
	if err != nil {
		logger.Fatal("cannot connect to DB", "err", err)
	}
	defer dbConn.Close()

	if err := migrations.Run(dbConn.DB); err != nil {
		logger.Fatal("failed to run migrations", "err", err)
	}

	store := db.NewStorage(dbConn)

	analyzer := llm.NewClient(cfg.LLM)
	if analyzer.Enabled() {
		logger.Info("llm analysis enabled", "model", cfg.LLM.Model)
	} else {
		logger.Info("llm analysis disabled, using pattern extraction")
	}

	notifier := notify.New(cfg.Notify.WebhookURL,
		httpx.NewClient(nil, httpx.DefaultRetryConfig()), logger)
	limiter := ratelimit.New(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)

	h := handlers.NewHandler(store, analyzer, notifier, logger)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)

		// tenders and scoring
		r.Post("/tenders", h.CreateTenderHandler)
		r.Get("/tenders", h.GetTendersHandler)
		r.Post("/tenders/scoring", h.SubmitScoresHandler)
		r.Get("/tenders/scoring", h.GetScoresHandler)
		r.Get("/tenders/{tenderID}", h.GetTenderHandler)
		r.Patch("/tenders/{tenderID}", h.PatchTenderHandler)
		r.Delete("/tenders/{tenderID}", h.DeleteTenderHandler)

		// stages
		r.Post("/tenders/{tenderID}/stages", h.CreateStageHandler)
		r.Get("/tenders/{tenderID}/stages", h.GetStagesHandler)
		r.Put("/tenders/{tenderID}/stages", h.ReorderStagesHandler)
		r.Patch("/stages/{stageID}", h.UpdateStageHandler)
		r.Delete("/stages/{stageID}", h.DeleteStageHandler)

		// insights
		r.Get("/insights", h.GetInsightsHandler)
		r.With(limiter.Middleware).Post("/insights", h.AnalyzeDocumentHandler)

		// documents
		r.Post("/documents", h.CreateDocumentHandler)
		r.Get("/documents", h.GetDocumentsHandler)
		r.Get("/documents/{documentID}", h.GetDocumentHandler)
		r.Delete("/documents/{documentID}", h.DeleteDocumentHandler)

		// team
		r.Post("/tenders/{tenderID}/members", h.CreateTeamMemberHandler)
		r.Get("/tenders/{tenderID}/members", h.GetTeamMembersHandler)
		r.Delete("/members/{memberID}", h.DeleteTeamMemberHandler)
	})

	logger.Info("starting server", "addr", cfg.Server.Address)
	if err := http.ListenAndServe(cfg.Server.Address, r); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}
