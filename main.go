package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"

	"gradehub/internal/auth"
	"gradehub/internal/config"
	"gradehub/internal/db"
	"gradehub/internal/gelf"
	"gradehub/internal/handler"
	"gradehub/internal/repository"
	"gradehub/internal/router"
	"gradehub/internal/service"
	"gradehub/internal/storage"
)

func main() {
	cfg := config.Load()

	// GELF UDP logging
	if cfg.GelfAddr != "" {
		gelfWriter, err := gelf.New(cfg.GelfAddr)
		if err != nil {
			log.Printf("Warning: GELF init failed: %v", err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stderr, gelfWriter))
			log.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}

	ctx := context.Background()

	// Connect to MongoDB
	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	database := client.Database(cfg.MongoDatabase)
	log.Printf("Connected to MongoDB (database %s)", cfg.MongoDatabase)

	// Repositories
	userRepo := repository.NewUserRepo(database)
	taskRepo := repository.NewTaskRepo(database)
	subRepo := repository.NewSubmissionRepo(database)

	// Index bootstrap runs before serving: the unique (task, student)
	// index is a correctness requirement, not an optimization.
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}
	if err := subRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create submission indexes: %v", err)
	}
	if err := taskRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("Warning: failed to create task indexes: %v", err)
	}

	// File store for uploaded artifacts
	files, err := storage.NewDisk(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to init upload dir: %v", err)
	}

	// Services
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	authSvc := service.NewAuthService(userRepo, issuer)
	taskSvc := service.NewTaskService(taskRepo, subRepo)
	subSvc := service.NewSubmissionService(subRepo, taskRepo, userRepo, files)

	if err := authSvc.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPass); err != nil {
		log.Printf("Warning: failed to seed admin: %v", err)
	}

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	taskH := handler.NewTaskHandler(taskSvc)
	subH := handler.NewSubmissionHandler(subSvc, files, cfg.MaxFileSize)

	r := router.New(issuer, authH, taskH, subH)

	log.Printf("gradehub server starting on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
