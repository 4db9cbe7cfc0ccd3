package main

import (
	"log"

	api "aura-backend/cmd/api"
	factdomain "aura-backend/internal/fact/domain"
	factRepo "aura-backend/internal/fact/repository"
	"aura-backend/internal/ingest/connector"
	ingestdomain "aura-backend/internal/ingest/domain"
	ingestRepo "aura-backend/internal/ingest/repository"
	propertydomain "aura-backend/internal/property/domain"
	propertyRepo "aura-backend/internal/property/repository"
	sourcedomain "aura-backend/internal/source/domain"
	sourceRepo "aura-backend/internal/source/repository"
	sourceUsecase "aura-backend/internal/source/usecase"
	syncdomain "aura-backend/internal/sync/domain"
	syncRepo "aura-backend/internal/sync/repository"
	syncUsecase "aura-backend/internal/sync/usecase"
	"aura-backend/pkg/config"
	"aura-backend/pkg/database"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&ingestdomain.IngestItem{},
		&ingestdomain.ExtractedEntity{},
		&propertydomain.Property{},
		&factdomain.Fact{},
		&syncdomain.SyncState{},
		&sourcedomain.DataSource{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	itemRepository := ingestRepo.NewIngestItemRepository(db)
	entityRepository := ingestRepo.NewExtractedEntityRepository(db)
	factRepository := factRepo.NewFactRepository(db)
	propertyRepository := propertyRepo.NewPropertyRepository(db)
	syncStateRepository := syncRepo.NewSyncStateRepository(db)
	dataSourceRepository := sourceRepo.NewDataSourceRepository(db)

	// Initialize connectors
	connectors := []connector.Connector{
		connector.NewGmailConnector(cfg.DefaultLookback, cfg.SyncBatchSize),
		connector.NewDriveConnector(cfg.DefaultLookback, cfg.SyncBatchSize),
		connector.NewMessagingConnector(cfg.MessagingBaseURL, cfg.MessagingPhoneNumberID, cfg.DefaultLookback, cfg.SyncBatchSize),
		connector.NewBankingConnector(cfg.BankingBaseURL, cfg.BankingClientID, cfg.BankingSecret, cfg.DefaultLookback, cfg.SyncBatchSize),
	}
	retrier := &connector.Retrier{
		MaxAttempts: cfg.SyncRetryAttempts,
		BaseWait:    cfg.SyncRetryBaseWait,
	}

	// Initialize use cases (dependency injection)
	sourceUsecaseInstance := sourceUsecase.NewSourceUsecase(dataSourceRepository, cfg.EncryptionKey)
	credentialProvider := sourceUsecase.NewCredentialProvider(dataSourceRepository, cfg.EncryptionKey, cfg.GoogleClientID, cfg.GoogleClientSecret)
	orchestrator := syncUsecase.NewOrchestrator(
		syncStateRepository,
		itemRepository,
		entityRepository,
		factRepository,
		propertyRepository,
		credentialProvider,
		dataSourceRepository,
		connectors,
		retrier,
		cfg.SyncStallTimeout,
	)

	// Start auto-sync scheduler
	scheduler := syncUsecase.NewScheduler(orchestrator, dataSourceRepository, cfg.AutoSyncSpec)
	if err := scheduler.Start(); err != nil {
		log.Fatal("Failed to start scheduler:", err)
	}
	defer scheduler.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(orchestrator, sourceUsecaseInstance, factRepository, propertyRepository, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
