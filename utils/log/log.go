package log

import (
	"os"

	"github.com/sentinelworks/sentinel/utils/dotenv"
	"github.com/sirupsen/logrus"
)

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// This init function is only for testing cases, where the entry point is not
// main function. Unit test will fail with nil pointer dereference if we don't
// init here.
func init() {
	InitLogger()
}

func InitLogger() {
	logger = logrus.New()

	// JSON in prod for machine ingestion, plain text to stderr otherwise for
	// better readability
	if dotenv.IsProdEnv() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.SetOutput(os.Stderr)

	service := os.Getenv("SENTINEL_SERVICE")
	if service == "" {
		service = "sentinel"
	}

	Log = logger.WithFields(
		logrus.Fields{"service": service, "is_development": !dotenv.IsProdEnv()},
	)
}
