package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"genotyper/api/log"
	gam "genotyper/api/middleware"
	"genotyper/api/models"
	"genotyper/api/mvc"
	alignmentsMvc "genotyper/api/mvc/alignments"
	cacheMvc "genotyper/api/mvc/cache"
	featuresMvc "genotyper/api/mvc/features"
	haplotypesMvc "genotyper/api/mvc/haplotypes"
	serviceInfoMvc "genotyper/api/mvc/service-info"
	esRepo "genotyper/api/repositories/elasticsearch"
	"genotyper/api/services/cache"
	"genotyper/api/services/engine"
	"genotyper/api/services/sanitation"
	"genotyper/api/utils"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

func main() {
	// Gather environment variables (and the optional config file)
	cfg, err := utils.LoadConfig()
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	log.SetupLoggers(cfg.Log.File, cfg.Log.Environment, cfg.Debug)

	log.API.WithField("debug", cfg.Debug).
		WithField("elasticsearchUrl", cfg.Elasticsearch.Url).
		WithField("elasticsearchUsername", cfg.Elasticsearch.Username).
		WithField("indexPrefix", cfg.Elasticsearch.IndexPrefix).
		WithField("cacheTtlMinutes", cfg.Cache.TtlMinutes).
		WithField("minCoverage", cfg.Engine.MinCoverage).
		WithField("pctDifferentialFilter", cfg.Engine.PctDifferentialFilter).
		WithField("port", cfg.Api.Port).
		Info("Using configuration")

	// Service Connections:
	// -- Elasticsearch
	es, err := utils.CreateEsConnection(cfg)
	if err != nil {
		log.API.Fatalf("Failed to create the Elasticsearch client : %v", err)
	}
	repo := esRepo.NewRepository(es, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if created, err := repo.EnsureIndices(ctx); err != nil {
		log.API.Warnf("Unable to verify indices, continuing : %v", err)
	} else if len(created) > 0 {
		log.API.WithField("indices", created).Info("Created missing indices")
	}
	cancel()

	// Service Singletons
	rc := cache.NewResultCache(time.Duration(cfg.Cache.TtlMinutes) * time.Minute)
	ss := sanitation.NewSanitationService(rc, cfg)
	defer ss.Stop()
	eng := engine.NewEngine(repo, rc, cfg)

	// Instantiate Server
	e := newServer(cfg, eng, rc)

	// Run
	e.Logger.Fatal(e.Start(":" + cfg.Api.Port))
}

func newServer(cfg *models.Config, eng *engine.Engine, rc *cache.ResultCache) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = mvc.HTTPErrorHandler

	// Configure Server
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET},
	}))

	// -- Override handlers with "custom Genotyper" context
	e.Use(mvc.GenotyperContextMiddleware(cfg, eng, rc))

	// Begin MVC Routes
	// -- Root
	e.GET("/", serviceInfoMvc.GetRoot)

	// -- Service Info
	e.GET("/service-info", serviceInfoMvc.GetServiceInfo)

	// -- Alignments
	e.GET("/alignments", alignmentsMvc.GetAlignments,
		// middleware
		gam.CalibrateOptionalReferenceIdsAttribute,
		gam.CalibrateOptionalAnalysisIdsAttribute,
		gam.CalibrateWindow,
		gam.CalibrateThresholds)
	e.GET("/codons", alignmentsMvc.GetCodonMapping,
		// middleware
		gam.MandateReferenceIdAttribute,
		gam.MandatePositionAttribute)

	// -- Features
	e.GET("/features/tracks", featuresMvc.GetFeatureTracks,
		// middleware
		gam.CalibrateOptionalReferenceIdsAttribute)

	// -- Haplotypes
	e.GET("/haplotypes/calls", haplotypesMvc.GetHaplotypeCalls,
		// middleware
		gam.CalibrateOptionalAnalysisIdsAttribute,
		gam.CalibrateOptionalLociAttribute,
		gam.CalibrateThresholds)
	e.GET("/haplotypes/publish", haplotypesMvc.GetHaplotypePublishRows,
		// middleware
		gam.CalibrateOptionalAnalysisIdsAttribute,
		gam.CalibrateOptionalLociAttribute,
		gam.CalibrateThresholds)

	// -- Cache
	e.GET("/cache/stats", cacheMvc.GetCacheStats)

	return e
}
