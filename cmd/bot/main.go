package main

import (
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"discord-giff/internal/audit"
	"discord-giff/internal/config"
	"discord-giff/internal/discord"
	"discord-giff/internal/e621"
	"discord-giff/internal/tags"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := godotenv.Load(".env"); err != nil {
		logger.Warn(".env file not found", zap.Error(err))
	}

	cfg, err := config.New()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	publicKey, err := discord.ParsePublicKey(cfg.PublicKey)
	if err != nil {
		logger.Fatal("invalid public key", zap.Error(err))
	}

	var store tags.Store
	if cfg.ConfigFilePath == "" {
		logger.Info("using in-memory tag store")
		store = tags.NewMemoryStore()
	} else {
		fileStore, err := tags.NewFileStore(cfg.ConfigFilePath, logger)
		if err != nil {
			logger.Fatal("failed to init tag store", zap.Error(err))
		}
		store = fileStore
	}

	var recorder *audit.Recorder
	if cfg.AuditLogPath != "" {
		rec, err := audit.NewRecorder(cfg.AuditLogPath)
		if err != nil {
			logger.Warn("failed to init audit log", zap.Error(err))
		} else {
			recorder = rec
		}
	}

	// REST-only session: the bot never opens a gateway connection, it only
	// edits deferred interaction responses.
	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		logger.Fatal("failed to create discord session", zap.Error(err))
	}

	fetcher := e621.NewClient(cfg.E621BaseURL, cfg.E621UserAgent, store, logger)
	handler := discord.NewHandler(store, fetcher, session, publicKey, recorder, logger)

	mux := http.NewServeMux()
	mux.Handle("/interactions", handler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("listening for interactions", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
