package cli

import (
	"os"

	log "github.com/sirupsen/logrus"

	"psych-academy/internal/config"
)

func setupLogging(cfg config.Config) {
	log.SetOutput(os.Stdout)
	if cfg.Log.Format == "text" {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&log.JSONFormatter{})
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.WithField("level", cfg.Log.Level).Warn("unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
