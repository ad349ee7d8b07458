package bootstrap

import (
	"log/slog"
	"os"
	"starwarsproxy/src/helper/env"

	"github.com/joho/godotenv"
)

// LoadEnv carrega o .env local quando existir. Variáveis já exportadas vencem.
func LoadEnv() {
	_ = godotenv.Load()
}

func NewLogger() *slog.Logger {
	logLevel := env.GetString("LOG_LEVEL", "info")
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}
