// Package logger exposes the shared application logger.
package logger

import "github.com/sirupsen/logrus"

var log = logrus.New()

// Init configures the logger for the given environment. Production drops
// debug noise and switches to JSON for log shippers.
func Init(env string) {
	if env == "prod" {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
		return
	}
	log.SetLevel(logrus.DebugLevel)
}

// L returns the shared logger.
func L() *logrus.Logger {
	return log
}
