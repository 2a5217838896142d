package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	ingestHttp "paper-trends-service/internal/ingest/adapters/http/fiber"
	ingestRepoPg "paper-trends-service/internal/ingest/adapters/postgres"
	ingestUsecase "paper-trends-service/internal/ingest/core/usecase"

	trendsHttp "paper-trends-service/internal/trends/adapters/http/fiber"
	trendsRepoPg "paper-trends-service/internal/trends/adapters/postgres"
	trendsUsecase "paper-trends-service/internal/trends/core/usecase"

	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "paper-trends-service/docs"
)

func main() {
	// Config
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is not set")
	}

	// DB connection
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to open postgres: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping postgres: %v", err)
	}

	// Adapter-level DB wrappers
	ingestDB := ingestRepoPg.NewSQLDB(db)
	trendsDB := trendsRepoPg.NewSQLDB(db)

	// Repositories
	matrixStore := ingestRepoPg.NewMatrixRepository(ingestDB)
	matrixReader := trendsRepoPg.NewMatrixRepository(trendsDB)

	// Usecases
	aggregateUC := ingestUsecase.NewAggregateStreamUseCase(ingestUsecase.NewClassifier(ingestUsecase.Filters{}))
	analyzeUC := trendsUsecase.NewAnalyzeTrendsUseCase(matrixReader)

	// HTTP (Fiber) app + handlers
	app := fiber.New()

	// ingestion endpoint
	recordHandler := ingestHttp.NewRecordHandler(aggregateUC, matrixStore)
	app.Post("/records", recordHandler.IngestRecords)

	// trend endpoints
	trendsHandler := trendsHttp.NewTrendsHandler(analyzeUC, matrixReader)
	app.Get("/summary", trendsHandler.GetSummary)
	app.Get("/matrix", trendsHandler.GetMatrix)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(":8080"); err != nil {
			log.Printf("fiber stopped: %v", err)
		}
	}()

	log.Println("server started on :8080")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("fiber shutdown error: %v", err)
	}

	log.Println("server exiting")
}
