package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"drivebox/internal/auth"
	"drivebox/internal/blob/s3"
	"drivebox/internal/config"
	"drivebox/internal/domain/services"
	"drivebox/internal/handler"
	"drivebox/internal/mail"
	"drivebox/internal/middleware"
	"drivebox/internal/repository/postgres"
	"drivebox/internal/service/drive"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 5)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := config.NewLogger(logOut, cfg.Environment)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// JWT verifier backed by the identity provider's JWKS endpoint
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Blob store
	s3Client, err := s3.NewClient(ctx, s3.Config{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretKey,
		ForcePathStyle:  cfg.S3ForcePathStyle,
	})
	if err != nil {
		log.Fatalf("Failed to create S3 client: %v", err)
	}
	blobs, err := s3.New(ctx, s3Client, cfg.S3Bucket)
	if err != nil {
		log.Fatalf("Failed to reach blob bucket %q: %v", cfg.S3Bucket, err)
	}
	logger.Info("blob store connected", "bucket", cfg.S3Bucket)

	// Grant notifications are best-effort; without a key they are dropped
	var notifier services.Notifier = mail.NopNotifier{}
	if cfg.SendGridAPIKey != "" {
		notifier = mail.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.MailFrom, logger)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, grant notifications disabled")
	}

	// Create services
	accessEvaluator := drive.NewAccessEvaluator()
	pathResolver := drive.NewPathResolver(folderRepo)
	folderService := drive.NewFolderService(folderRepo, fileRepo, blobs, pathResolver, accessEvaluator, txManager, logger)
	fileService := drive.NewFileService(fileRepo, folderRepo, userRepo, blobs, pathResolver, accessEvaluator, txManager, logger)
	shareService := drive.NewShareService(folderRepo, fileRepo, userRepo, accessEvaluator, txManager, notifier, logger)
	treeService := drive.NewTreeService(folderRepo, fileRepo, blobs, accessEvaluator, logger)

	// Create handlers
	folderHandler := handler.NewFolderHandler(folderService, shareService, logger)
	fileHandler := handler.NewFileHandler(fileService, logger)
	treeHandler := handler.NewTreeHandler(treeService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", treeHandler.HealthCheck)

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.RenameFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)
	mux.HandleFunc("POST /api/folders/{id}/clone", folderHandler.CloneFolder)
	mux.HandleFunc("POST /api/folders/{id}/grants", folderHandler.GrantAccess)
	mux.HandleFunc("DELETE /api/folders/{id}/grants", folderHandler.RevokeAccess)
	mux.HandleFunc("GET /api/folders/{id}/tree", treeHandler.GetTree)

	// File routes
	mux.HandleFunc("POST /api/folders/{id}/files", fileHandler.UploadFile)
	mux.HandleFunc("GET /api/files/{id}", fileHandler.GetFile)
	mux.HandleFunc("PATCH /api/files/{id}", fileHandler.RenameFile)
	mux.HandleFunc("DELETE /api/files/{id}", fileHandler.DeleteFile)
	mux.HandleFunc("POST /api/files/{id}/grants", fileHandler.GrantAccess)
	mux.HandleFunc("DELETE /api/files/{id}/grants", fileHandler.RevokeAccess)

	// Search
	mux.HandleFunc("GET /api/search", treeHandler.Search)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	h = middleware.AuthMiddleware(jwtVerifier)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
