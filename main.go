package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/estateflow/inventorybackend/capture"
	"github.com/estateflow/inventorybackend/config"
	"github.com/estateflow/inventorybackend/database"
	"github.com/estateflow/inventorybackend/handlers"
	"github.com/estateflow/inventorybackend/media"
	"github.com/estateflow/inventorybackend/realtime"
	"github.com/estateflow/inventorybackend/repository"
	"github.com/estateflow/inventorybackend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	if dbDir := filepath.Dir(cfg.DatabasePath); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create database directory %s: %v", dbDir, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database schema: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()

	mediaSubDirs := map[media.AssetType]string{
		media.AssetTypeFull:      cfg.FullSubDir,
		media.AssetTypeWeb:       cfg.WebSubDir,
		media.AssetTypeThumbnail: cfg.ThumbnailSubDir,
	}
	mediaStore, err := media.NewLocalStorage(cfg.UploadDir, mediaSubDirs)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize photo store: %v", err)
	}
	mediaProcessor := media.NewProcessor(mediaStore)

	roomRepo := repository.NewRoomRepository(db)
	itemRepo := repository.NewItemRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	matchRepo := repository.NewMatchRepository(db)

	hub := realtime.NewHub()
	go hub.Run()

	log.Printf("Initializing photo processor worker pool (Workers: %d, Queue Size: %d)...", cfg.NumPhotoWorkers, cfg.PhotoQueueSize)
	photoProcessor := workers.NewPhotoProcessor(mediaStore, mediaProcessor, photoRepo, hub, cfg.PhotoQueueSize, cfg.NumPhotoWorkers)
	defer photoProcessor.Stop()

	tracker := capture.NewTracker(
		repository.NewCatalog(roomRepo, itemRepo),
		sessionRepo,
		photoProcessor,
		capture.Options{
			AutoAdvance: cfg.AutoAdvanceDelay,
			AutoUpload:  cfg.AutoUpload,
		},
	)

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing photos in: %s", cfg.UploadDir)
	log.Printf("Auto-match threshold: %d", cfg.AutoMatchThreshold)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	roomHandler := &handlers.RoomHandler{Rooms: roomRepo, Items: itemRepo}
	itemHandler := &handlers.ItemHandler{Items: itemRepo, Rooms: roomRepo}
	sessionHandler := &handlers.SessionHandler{
		Tracker:  tracker,
		Sessions: sessionRepo,
		Photos:   photoRepo,
		Store:    mediaStore,
		Hub:      hub,
		Cfg:      cfg,
	}
	uploadHandler := handlers.NewUploadHandler(roomRepo, itemRepo, photoRepo, matchRepo, mediaStore, photoProcessor, hub, cfg)
	progressHandler := &handlers.ProgressHandler{DB: sqlDB}

	r.Route("/api", func(r chi.Router) {
		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", roomHandler.CreateRoom)
			r.Get("/", roomHandler.ListRooms)
			r.Route("/{roomID}", func(r chi.Router) {
				r.Get("/", roomHandler.GetRoom)
				r.Put("/", roomHandler.UpdateRoom)
				r.Delete("/", roomHandler.DeleteRoom)
				r.Get("/items", roomHandler.ListRoomItems)
			})
		})

		r.Route("/items", func(r chi.Router) {
			r.Post("/", itemHandler.CreateItem)
			r.Get("/", itemHandler.ListItems)
			r.Route("/{itemID}", func(r chi.Router) {
				r.Get("/", itemHandler.GetItem)
				r.Put("/", itemHandler.UpdateItem)
				r.Delete("/", itemHandler.DeleteItem)
				r.Get("/images", itemHandler.ListItemImages)
			})
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.StartSession)
			r.Get("/", sessionHandler.ListSessions)
			r.Route("/current", func(r chi.Router) {
				r.Get("/", sessionHandler.GetCurrentSession)
				r.Get("/progress", sessionHandler.GetProgress)
				r.Post("/photos", sessionHandler.RecordPhoto)
				r.Post("/angle", sessionHandler.SelectAngle)
				r.Post("/advance", sessionHandler.Advance)
				r.Post("/retreat", sessionHandler.Retreat)
				r.Post("/pause", sessionHandler.Pause)
				r.Post("/resume", sessionHandler.Resume)
				r.Post("/end", sessionHandler.EndSession)
			})
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", sessionHandler.GetSession)
				r.Get("/photos", sessionHandler.ListSessionPhotos)
			})
		})

		r.Route("/uploads", func(r chi.Router) {
			r.Post("/analyze", uploadHandler.AnalyzeBatch)
			r.Route("/{batchID}", func(r chi.Router) {
				r.Get("/", uploadHandler.GetBatch)
				r.Post("/assign", uploadHandler.AssignCandidate)
				r.Post("/confirm", uploadHandler.ConfirmBatch)
			})
		})

		r.Get("/progress/rooms", progressHandler.GetRoomProgress)

		for _, subDir := range []string{cfg.FullSubDir, cfg.WebSubDir, cfg.ThumbnailSubDir} {
			r.Get(fmt.Sprintf("/photos/%s/*", subDir), handlers.AssetServer(cfg.UploadDir, subDir))
			log.Printf("Registered photo server at /api/photos/%s/*", subDir)
		}
	})

	r.Get("/ws", hub.ServeWS)

	fmt.Printf("Server starting on http://localhost%s\n", cfg.ListenAddr)
	log.Printf("Server listening on %s", cfg.ListenAddr)
	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
