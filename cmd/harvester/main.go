package main

import (
	"flag"
	"strings"

	"github.com/sentinelworks/sentinel/app_config"
	"github.com/sentinelworks/sentinel/harvester"
	"github.com/sentinelworks/sentinel/harvester/sink"
	"github.com/sentinelworks/sentinel/session"
	"github.com/sentinelworks/sentinel/storage"
	"github.com/sentinelworks/sentinel/utils"
	"github.com/sentinelworks/sentinel/utils/dotenv"
	Logger "github.com/sentinelworks/sentinel/utils/log"
)

var (
	configPath   = flag.String("config", "", "path to yaml app config")
	targets      = flag.String("targets", "", "comma separated target urls, overrides config")
	scrollCycles = flag.Int("scroll_cycles", 0, "scroll cycles per target, overrides config")
	headful      = flag.Bool("headful", false, "run the browser with a visible window")
	customTitle  = flag.String("custom_title", "", "operator label stamped on every harvested record")
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

	targetUrls := config.TargetUrls
	if *targets != "" {
		targetUrls = []string{}
		for _, target := range strings.Split(*targets, ",") {
			if trimmed := strings.TrimSpace(target); trimmed != "" {
				targetUrls = append(targetUrls, trimmed)
			}
		}
	}
	if len(targetUrls) == 0 {
		Logger.Log.Fatal("no target urls, set -targets or target_urls in the app config")
	}

	opts := harvester.Options{
		ScrollCycles:     config.ScrollCycles,
		Headless:         config.Headless,
		MaxComments:      config.MaxComments,
		StorageStatePath: session.ResolveStorageStatePath(),
		CustomTitle:      *customTitle,
	}
	if *scrollCycles > 0 {
		opts.ScrollCycles = *scrollCycles
	}
	if *headful {
		opts.Headless = false
	}

	dataSink := buildSink()
	posts := harvester.HarvestTargets(targetUrls, opts, dataSink)
	Logger.Log.Info("harvest run completed, ", len(posts), " records across ", len(targetUrls), " targets")
}

// buildSink prefers the database when one is configured, falling back to
// stderr for local runs.
func buildSink() harvester.HarvestedDataSink {
	if utils.IsDBConfigured() {
		db, err := utils.GetDBConnection()
		if err != nil {
			Logger.Log.Fatal("fail to connect to DB: ", err)
		}
		utils.DatabaseSetupAndMigration(db)
		return sink.NewStoreSink(storage.NewPostStore(db))
	}
	Logger.Log.Info("DB not configured, streaming harvested records to stderr")
	return sink.NewStdErrSink()
}
