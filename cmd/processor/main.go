package main

import (
	"context"
	"flag"
	"os"

	"github.com/sentinelworks/sentinel/analysis"
	"github.com/sentinelworks/sentinel/app_config"
	"github.com/sentinelworks/sentinel/storage"
	"github.com/sentinelworks/sentinel/utils"
	"github.com/sentinelworks/sentinel/utils/dotenv"
	Logger "github.com/sentinelworks/sentinel/utils/log"
)

var (
	configPath = flag.String("config", "", "path to yaml app config")
	batchSize  = flag.Int("batch_size", 0, "posts per model request, overrides config")
	modelName  = flag.String("model", "", "model name, overrides config")
)

func main() {
	flag.Parse()
	if err := dotenv.LoadDotEnvs(); err != nil {
		Logger.Log.Fatal("fail to load env: ", err)
	}

	var config app_config.SentinelAppConfig
	if *configPath != "" {
		config = app_config.ParseSentinelAppConfig(*configPath)
	}
	if *batchSize > 0 {
		config.BatchSize = *batchSize
	}
	if *modelName != "" {
		config.ModelName = *modelName
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		Logger.Log.Fatal("OPENAI_API_KEY is not set")
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		Logger.Log.Fatal("fail to connect to DB: ", err)
	}
	utils.DatabaseSetupAndMigration(db)

	client := analysis.NewOpenAIClient(apiKey, config.ModelName)
	processor := analysis.NewProcessor(storage.NewPostStore(db), client, nil, config.BatchSize, nil)

	report, err := processor.ProcessPendingPosts(context.Background())
	if err != nil {
		Logger.Log.Fatal("processing run failed: ", err)
	}
	Logger.Log.Info("processed ", report.Processed, " posts, ", report.Errored, " errored, across ", report.Batches, " batches")
}
