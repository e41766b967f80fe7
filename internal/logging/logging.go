// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/chatbot-widget/backend/internal/config"
)

// Setup installs the global logger described by cfg, writing to out (stderr
// when nil).
func Setup(cfg config.LogConfig, out io.Writer) error {
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	writer := out
	if cfg.Format != "json" {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: !cfg.Color}
	}

	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
	return nil
}
