package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"solgigs/internal/adapter/api"
	"solgigs/internal/adapter/api/handler"
	apimiddleware "solgigs/internal/adapter/api/middleware"
	"solgigs/internal/adapter/api/router"
	"solgigs/internal/adapter/repository"
	"solgigs/internal/infrastructure/firebase"
	"solgigs/internal/infrastructure/storage"
	"solgigs/internal/infrastructure/websocket"
	"solgigs/internal/usecase"
	"solgigs/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	credentialsPath := ""

	// Service account from environment variable in production, file
	// path for local development.
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		credentialsPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if credentialsPath == "" {
			credentialsPath = "./service-account.json"
		}
		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", credentialsPath)
		}
		opt = option.WithCredentialsFile(credentialsPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	fbAuth, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}
	authClient := firebase.NewFirebaseAuthClient(fbAuth)

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	gigRepo := repository.NewFirestoreGigRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)

	registry := websocket.NewRoomRegistry()
	wsManager := websocket.NewManager(registry, chatRepo, cfg.PersistTimeout, cfg.SendBufferSize)
	wsManager.ConfigureSendRate(cfg.MessageRateMax, cfg.MessageRateTime)

	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo)
	gigUseCase := usecase.NewGigUseCase(gigRepo, userRepo)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, gigRepo, chatUseCase)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)

	authHandler := handler.NewAuthHandler(authClient, userRepo)
	chatHandler := handler.NewChatHandler(chatUseCase)
	gigHandler := handler.NewGigHandler(gigUseCase)
	orderHandler := handler.NewOrderHandler(orderUseCase)
	userHandler := handler.NewUserHandler(userRepo)
	fileHandler := handler.NewFileHandler(storageClient)
	wsHandler := handler.NewWebSocketHandler(wsManager, authMiddleware)

	router.Setup(e)
	router.SetupAuthRouter(e, authHandler)
	router.SetupUserRouter(e, userHandler, authMiddleware)
	router.SetupGigRouter(e, gigHandler, authMiddleware)
	router.SetupOrderRouter(e, orderHandler, authMiddleware)
	router.SetupChatRouter(e, chatHandler, authMiddleware)
	router.SetupFileRouter(e, fileHandler, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
