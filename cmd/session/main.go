package main

import (
	"flag"
	"time"

	"github.com/sentinelworks/sentinel/session"
	"github.com/sentinelworks/sentinel/utils/dotenv"
	Logger "github.com/sentinelworks/sentinel/utils/log"
)

var (
	outputPath = flag.String("output", session.DefaultStorageStatePath, "where to write the storage state file")
	deadline   = flag.Duration("deadline", 240*time.Second, "how long to wait for the interactive login")
)

func main() {
	flag.Parse()
	if err := dotenv.LoadDotEnvs(); err != nil {
		Logger.Log.Fatal("fail to load env: ", err)
	}

	if err := session.CaptureStorageState(*outputPath, *deadline); err != nil {
		Logger.Log.Fatal("fail to capture storage state: ", err)
	}
}
