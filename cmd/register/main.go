package main

import (
	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"discord-giff/internal/config"
	"discord-giff/internal/discord"
)

// One-time registration of the bot's slash commands against the Discord
// application commands endpoint.
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

	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		logger.Fatal("failed to create discord session", zap.Error(err))
	}

	registered, err := session.ApplicationCommandBulkOverwrite(cfg.AppID, "", discord.Commands)
	if err != nil {
		logger.Fatal("failed to register commands", zap.Error(err))
	}
	logger.Info("registered application commands", zap.Int("count", len(registered)))
}
