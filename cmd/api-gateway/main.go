package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ktuplanner/timetable-engine/internal/engine"
	internalhandler "github.com/ktuplanner/timetable-engine/internal/handler"
	internalmiddleware "github.com/ktuplanner/timetable-engine/internal/middleware"
	"github.com/ktuplanner/timetable-engine/internal/repository"
	"github.com/ktuplanner/timetable-engine/internal/service"
	"github.com/ktuplanner/timetable-engine/pkg/cache"
	"github.com/ktuplanner/timetable-engine/pkg/config"
	"github.com/ktuplanner/timetable-engine/pkg/database"
	"github.com/ktuplanner/timetable-engine/pkg/lock"
	"github.com/ktuplanner/timetable-engine/pkg/logger"
	corsmiddleware "github.com/ktuplanner/timetable-engine/pkg/middleware/cors"
	reqidmiddleware "github.com/ktuplanner/timetable-engine/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise redis", "error", err)
	}
	defer redisClient.Close()
	redisLock := lock.NewRedisLock(redisClient)

	departmentRepo := repository.NewDepartmentRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	classRepo := repository.NewClassRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	timeSlotRepo := repository.NewTimeSlotRepository(db)
	facultyAssignmentRepo := repository.NewFacultyAssignmentRepository(db)
	timetableEntryRepo := repository.NewTimetableEntryRepository(db)
	systemConfigRepo := repository.NewSystemConfigRepository(db)
	fitnessHistoryRepo := repository.NewFitnessHistoryRepository(db)

	loader := engine.NewLoader(
		departmentRepo,
		semesterRepo,
		classRepo,
		subjectRepo,
		facultyRepo,
		timeSlotRepo,
		facultyAssignmentRepo,
	)
	writer := engine.NewWriter(db, timetableEntryRepo, facultyAssignmentRepo, fitnessHistoryRepo)

	searchCfg := engine.SearchConfig{
		PopulationSize:  cfg.Scheduler.PopulationSize,
		Generations:     cfg.Scheduler.Generations,
		CrossoverRate:   cfg.Scheduler.CrossoverRate,
		MutationRate:    cfg.Scheduler.MutationRate,
		EliteCount:      cfg.Scheduler.EliteCount,
		TournamentSize:  cfg.Scheduler.TournamentSize,
		EvalWorkers:     cfg.Scheduler.EvalWorkers,
		ProgressLogEach: cfg.Scheduler.ProgressLogEach,
	}

	generationSvc := service.NewGenerationService(
		loader,
		writer,
		departmentRepo,
		systemConfigRepo,
		redisLock,
		metricsSvc,
		validator.New(),
		logr,
		searchCfg,
		cfg.Scheduler.LockTTLPerGen,
	)
	generationHandler := internalhandler.NewGenerationHandler(generationSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.POST("/departments/:key/timetable/generate", generationHandler.GenerateDepartment)
	api.POST("/timetable/generate-semester", generationHandler.GenerateSemester)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
