package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sentinelworks/sentinel/analysis"
	"github.com/sentinelworks/sentinel/harvester"
	"github.com/sentinelworks/sentinel/model"
	"github.com/sentinelworks/sentinel/storage"
	"github.com/sentinelworks/sentinel/utils"
	Logger "github.com/sentinelworks/sentinel/utils/log"
)

const (
	StageHarvest  = "harvest"
	StageAnalysis = "analysis"

	defaultPostsLimit = 100
)

// Server exposes the harvesting pipeline over HTTP. Harvest and process runs
// execute asynchronously; callers poll run status by id.
type Server struct {
	store       *storage.PostStore
	statusStore *utils.RedisStatusStore
	client      analysis.Client
	sink        harvester.HarvestedDataSink
	opts        harvester.Options
	batchSize   int
}

func NewServer(
	store *storage.PostStore,
	statusStore *utils.RedisStatusStore,
	client analysis.Client,
	sink harvester.HarvestedDataSink,
	opts harvester.Options,
	batchSize int,
) *Server {
	return &Server{
		store:       store,
		statusStore: statusStore,
		client:      client,
		sink:        sink,
		opts:        opts,
		batchSize:   batchSize,
	}
}

// NewRouter builds the gin engine with all routes registered.
func (s *Server) NewRouter() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/healthz", s.handleHealthz)
	router.GET("/posts", s.handleListPosts)
	router.POST("/harvest", s.handleHarvest)
	router.POST("/process", s.handleProcess)
	router.GET("/runs/:id", s.handleRunStatus)
	return router
}

func (s *Server) handleHealthz(c *gin.Context) {
	counts, err := s.store.CountByStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "posts": counts})
}

func (s *Server) handleListPosts(c *gin.Context) {
	status := model.PostStatus(c.DefaultQuery("status", string(model.StatusPending)))
	switch status {
	case model.StatusPending, model.StatusProcessed, model.StatusError:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + string(status)})
		return
	}

	limit := defaultPostsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit " + raw})
			return
		}
		limit = parsed
	}

	posts, err := s.store.QueryByStatus(status, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

type harvestRequest struct {
	Targets      []string `json:"targets" binding:"required"`
	ScrollCycles int      `json:"scroll_cycles"`
	Headless     *bool    `json:"headless"`
	CustomTitle  string   `json:"custom_title"`
}

func (s *Server) handleHarvest(c *gin.Context) {
	var req harvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Targets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "targets must not be empty"})
		return
	}

	opts := s.opts
	if req.ScrollCycles > 0 {
		opts.ScrollCycles = req.ScrollCycles
	}
	if req.Headless != nil {
		opts.Headless = *req.Headless
	}
	if req.CustomTitle != "" {
		opts.CustomTitle = req.CustomTitle
	}

	runId := uuid.NewString()
	s.setRunStatus(runId, StageHarvest, "harvest started")
	go func() {
		posts := harvester.HarvestTargets(req.Targets, opts, s.sink)
		s.setRunStatus(runId, StageHarvest,
			"harvest finished, collected "+strconv.Itoa(len(posts))+" records")
	}()

	c.JSON(http.StatusAccepted, gin.H{"run_id": runId})
}

func (s *Server) handleProcess(c *gin.Context) {
	runId := uuid.NewString()
	s.setRunStatus(runId, StageAnalysis, "analysis started")
	go func() {
		processor := analysis.NewProcessor(s.store, s.client, nil, s.batchSize, func(status string) {
			s.setRunStatus(runId, StageAnalysis, status)
		})
		report, err := processor.ProcessPendingPosts(context.Background())
		if err != nil {
			s.setRunStatus(runId, StageAnalysis, "analysis failed: "+err.Error())
			return
		}
		s.setRunStatus(runId, StageAnalysis,
			"analysis finished: "+strconv.Itoa(report.Processed)+" processed, "+
				strconv.Itoa(report.Errored)+" errored")
	}()

	c.JSON(http.StatusAccepted, gin.H{"run_id": runId})
}

func (s *Server) handleRunStatus(c *gin.Context) {
	runId := c.Param("id")
	if s.statusStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run status store not configured"})
		return
	}
	statuses, err := s.statusStore.GetRunStatuses(runId, []string{StageHarvest, StageAnalysis})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id":   runId,
		StageHarvest:  statuses[0],
		StageAnalysis: statuses[1],
	})
}

func (s *Server) setRunStatus(runId string, stage string, message string) {
	if s.statusStore == nil {
		return
	}
	if err := s.statusStore.SetRunStatus(runId, stage, message); err != nil {
		Logger.Log.Error("fail to set run status for ", runId, ": ", err)
	}
}
