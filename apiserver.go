package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/cnc-gokit/unireq"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/czcorpus/gsbench/cnf"
	"github.com/czcorpus/gsbench/dataimport"
	"github.com/czcorpus/gsbench/relevance"
	"github.com/czcorpus/gsbench/stats"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type service interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}

// ----------------------

func getRequestOrigin(ctx *gin.Context) string {
	currOrigin, ok := ctx.Request.Header["Origin"]
	if ok {
		return currOrigin[0]
	}
	return ""
}

func CORSMiddleware(conf *cnf.Conf) gin.HandlerFunc {
	return func(ctx *gin.Context) {

		var allowedOrigin string
		currOrigin := getRequestOrigin(ctx)
		for _, origin := range conf.CorsAllowedOrigins {
			if currOrigin == origin {
				allowedOrigin = origin
				break
			}
		}
		if allowedOrigin != "" {
			ctx.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			ctx.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			ctx.Writer.Header().Set(
				"Access-Control-Allow-Headers",
				"Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With",
			)
			ctx.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		}

		if ctx.Request.Method == "OPTIONS" {
			ctx.AbortWithStatus(204)
			return
		}
		ctx.Next()
	}
}

// ------

type relevanceInfo struct {
	DiseaseCode string             `json:"diseaseCode"`
	NumGeneSets int                `json:"numGeneSets"`
	Scores      map[string]float64 `json:"scores"`
}

// -----

type apiServer struct {
	conf    *cnf.Conf
	server  *http.Server
	statsDB *stats.Database
	catalog *relevance.Catalog
}

func (api *apiServer) handleResults(ctx *gin.Context) {
	filter := stats.ListFilter{}
	if v := ctx.Query("method"); v != "" {
		filter = filter.SetMethod(v)
	}
	if v := ctx.Query("dataset"); v != "" {
		filter = filter.SetDataset(v)
	}
	results, err := api.statsDB.GetResults(filter)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	limit, ok := unireq.GetURLIntArgOrFail(ctx, "limit", 0)
	if !ok {
		return
	}
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	uniresp.WriteJSONResponse(ctx.Writer, results)
}

func (api *apiServer) handleMethodResults(ctx *gin.Context) {
	method := ctx.Param("method")
	results, err := api.statsDB.GetResults(stats.ListFilter{}.SetMethod(method))
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	if len(results) == 0 {
		uniresp.RespondWithErrorJSON(
			ctx, fmt.Errorf("method not found"), http.StatusNotFound,
		)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, results)
}

func (api *apiServer) handleRelevance(ctx *gin.Context) {
	rel, err := api.catalog.ByDisease(ctx.Param("diseaseCode"))
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusNotFound)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, relevanceInfo{
		DiseaseCode: rel.DiseaseCode,
		NumGeneSets: rel.Size(),
		Scores:      rel.Scores(),
	})
}

func (api *apiServer) handleExclusions(ctx *gin.Context) {
	exclusions, err := api.statsDB.GetExclusions()
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, exclusions)
}

func (api *apiServer) Start(ctx context.Context) {
	if !api.conf.Logging.Level.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logging.GinMiddleware())
	engine.Use(uniresp.AlwaysJSONContentType())
	engine.Use(CORSMiddleware(api.conf))
	engine.NoMethod(uniresp.NoMethodHandler)
	engine.NoRoute(uniresp.NotFoundHandler)

	engine.GET("/results", api.handleResults)
	engine.GET("/results/:method", api.handleMethodResults)
	engine.GET("/relevance/:diseaseCode", api.handleRelevance)
	engine.GET("/exclusions", api.handleExclusions)

	log.Info().Msgf("starting to listen at %s:%d", api.conf.ListenAddress, api.conf.ListenPort)
	api.server = &http.Server{
		Handler:      engine,
		Addr:         fmt.Sprintf("%s:%d", api.conf.ListenAddress, api.conf.ListenPort),
		WriteTimeout: time.Duration(api.conf.ServerWriteTimeoutSecs) * time.Second,
		ReadTimeout:  time.Duration(api.conf.ServerReadTimeoutSecs) * time.Second,
	}
	go func() {
		if err := api.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()
}

func (api *apiServer) Stop(ctx context.Context) error {
	log.Warn().Msg("shutting down gsbench HTTP API server")
	return api.server.Shutdown(ctx)
}

// -------------------------

func runApiServer(
	ctx context.Context,
	conf *cnf.Conf,
) {
	statsDB, err := stats.NewDatabase(conf.WorkingDBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open results database")
		return
	}
	if err := statsDB.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to init results database")
		return
	}
	catalog, err := dataimport.ReadRelevanceCatalog(conf.RelevanceDataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load relevance catalog")
		return
	}

	server := &apiServer{
		conf:    conf,
		statsDB: statsDB,
		catalog: catalog,
	}

	services := []service{server}
	for _, m := range services {
		m.Start(ctx)
	}
	<-ctx.Done()
	log.Warn().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for _, s := range services {
		wg.Add(1)
		go func(srv service) {
			defer wg.Done()
			if err := srv.Stop(shutdownCtx); err != nil {
				log.Error().Err(err).Type("service", srv).Msg("Error shutting down service")
			}
		}(s)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("Graceful shutdown completed")
	case <-shutdownCtx.Done():
		log.Warn().Msg("Shutdown timed out")
	}
}
