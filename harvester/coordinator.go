package harvester

import (
	"fmt"
	"sync"

	"github.com/sentinelworks/sentinel/model"
	Logger "github.com/sentinelworks/sentinel/utils/log"
)

// HarvestTargets fans targets out to a bounded worker pool, one isolated
// browser session per target. A target that fails in any way still yields an
// emergency record, so the union is non-empty whenever targets is non-empty.
// Result ordering across targets is not guaranteed.
func HarvestTargets(targets []string, opts Options, sink HarvestedDataSink) []*model.RawPost {
	if len(targets) == 0 {
		return []*model.RawPost{}
	}

	workers := MaxConcurrentTargets
	if len(targets) < workers {
		workers = len(targets)
	}

	var mu sync.Mutex
	collected := []*model.RawPost{}

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for targetUrl := range jobs {
				posts := harvestOneTarget(targetUrl, opts, sink)
				mu.Lock()
				collected = append(collected, posts...)
				mu.Unlock()
			}
		}()
	}

	for _, targetUrl := range targets {
		jobs <- targetUrl
	}
	close(jobs)
	wg.Wait()

	return collected
}

// harvestOneTarget isolates a single target run, converting panics from the
// browser layer into an emergency record instead of taking down siblings.
func harvestOneTarget(targetUrl string, opts Options, sink HarvestedDataSink) (posts []*model.RawPost) {
	defer func() {
		if r := recover(); r != nil {
			Logger.Log.Error("harvest panicked for ", targetUrl, ": ", r)
			record := EmergencyRecord(targetUrl, fmt.Sprintf("harvest panicked: %v", r))
			record.CustomTitle = opts.CustomTitle
			if sink != nil {
				if err := sink.Push(record); err != nil {
					Logger.Log.Error("fail to push emergency record to sink: ", err)
				}
			}
			posts = []*model.RawPost{record}
		}
	}()

	Logger.Log.Info("start harvesting target ", targetUrl)
	posts = NewExtractor(opts, sink).HarvestTarget(targetUrl)
	Logger.Log.Info("finished harvesting target ", targetUrl, ", collected ", len(posts), " records")
	return posts
}
