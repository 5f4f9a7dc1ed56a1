package main

import (
	"flag"
	"os"

	"github.com/sentinelworks/sentinel/analysis"
	"github.com/sentinelworks/sentinel/app_config"
	"github.com/sentinelworks/sentinel/harvester"
	"github.com/sentinelworks/sentinel/harvester/sink"
	"github.com/sentinelworks/sentinel/server"
	"github.com/sentinelworks/sentinel/session"
	"github.com/sentinelworks/sentinel/storage"
	"github.com/sentinelworks/sentinel/utils"
	"github.com/sentinelworks/sentinel/utils/dotenv"
	Logger "github.com/sentinelworks/sentinel/utils/log"
)

var (
	configPath = flag.String("config", "", "path to yaml app config")
	addr       = flag.String("addr", ":8080", "listen address")
)

func main() {
	flag.Parse()
	if err := dotenv.LoadDotEnvs(); err != nil {
		Logger.Log.Fatal("fail to load env: ", err)
	}

	config := app_config.SentinelAppConfig{Headless: true}
	if *configPath != "" {
		config = app_config.ParseSentinelAppConfig(*configPath)
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		Logger.Log.Fatal("fail to connect to DB: ", err)
	}
	utils.DatabaseSetupAndMigration(db)
	store := storage.NewPostStore(db)

	statusStore, err := utils.GetRedisStatusStore()
	if err != nil {
		Logger.Log.Warn("redis not reachable, run status reporting disabled: ", err)
		statusStore = nil
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		Logger.Log.Fatal("OPENAI_API_KEY is not set")
	}
	client := analysis.NewOpenAIClient(apiKey, config.ModelName)

	opts := harvester.Options{
		ScrollCycles:     config.ScrollCycles,
		Headless:         config.Headless,
		MaxComments:      config.MaxComments,
		StorageStatePath: session.ResolveStorageStatePath(),
	}

	srv := server.NewServer(store, statusStore, client, sink.NewStoreSink(store), opts, config.BatchSize)
	Logger.Log.Info("serving on ", *addr)
	if err := srv.NewRouter().Run(*addr); err != nil {
		Logger.Log.Fatal("server exited: ", err)
	}
}
