package conf

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// LoggingConfig controls the process-wide logrus setup.
type LoggingConfig struct {
	Level         string `envconfig:"level" default:"info"`
	Format        string `envconfig:"format"`
	DisableColors bool   `envconfig:"disable_colors"`
}

// ConfigureLogging applies the logging configuration to the standard
// logrus logger.
func ConfigureLogging(config *LoggingConfig) error {
	level, err := logrus.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	if strings.EqualFold(config.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors:   config.DisableColors,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return nil
}
