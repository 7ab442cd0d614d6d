package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

const serviceName = "foodie-finder"

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// Tests never go through main, so the logger must be usable without an
// explicit Init call.
func init() {
	Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
}

func Init(env, level string) {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	if env == "prod" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	Log = logger.WithFields(logrus.Fields{
		"service":        serviceName,
		"is_development": env != "prod",
	})
}
