package main

import (
	"log"

	"github.com/dkuiper/taskboard/internal/api"
	"github.com/dkuiper/taskboard/internal/blobstore/local"
	"github.com/dkuiper/taskboard/internal/config"
	"github.com/dkuiper/taskboard/internal/db"
	"github.com/dkuiper/taskboard/internal/hub"
	"github.com/dkuiper/taskboard/internal/logging"
	"github.com/dkuiper/taskboard/internal/service"
	"github.com/dkuiper/taskboard/internal/store"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	blobs, err := local.NewLocalBlobStore(cfg.UploadPath)
	if err != nil {
		logger.Error("failed to initialize upload storage", "error", err)
		return
	}

	broadcaster := hub.New(logger)
	defer broadcaster.Close()

	boardService := service.NewBoardService(
		store.NewJobStore(database),
		store.NewTaskStore(database),
		store.NewPhotoStore(database),
		store.NewNoteStore(database),
		blobs,
		broadcaster,
		logger,
	)

	server := api.NewServer(boardService, broadcaster, blobs, cfg.CORSOrigin, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
