package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ktuplanner/timetable-engine/internal/dto"
	"github.com/ktuplanner/timetable-engine/internal/engine"
	"github.com/ktuplanner/timetable-engine/internal/models"
	appErrors "github.com/ktuplanner/timetable-engine/pkg/errors"
	"github.com/ktuplanner/timetable-engine/pkg/lock"
)

type systemConfigReader interface {
	FindActive(ctx context.Context) (*models.SystemConfig, error)
}

type generationDepartmentReader interface {
	FindByKey(ctx context.Context, key string) (*models.Department, error)
}

// GenerationService orchestrates a timetable generation run: it loads the
// Problem, holds the department/term-instance lock for the run's duration,
// drives the evolutionary search, and commits the winning chromosome.
type GenerationService struct {
	loader      *engine.Loader
	writer      *engine.Writer
	departments generationDepartmentReader
	config      systemConfigReader
	lock        *lock.RedisLock
	metrics     *MetricsService

	validator     *validator.Validate
	logger        *zap.Logger
	searchCfg     engine.SearchConfig
	lockTTLPerGen time.Duration
}

// NewGenerationService wires the orchestration dependencies.
func NewGenerationService(
	loader *engine.Loader,
	writer *engine.Writer,
	departments generationDepartmentReader,
	config systemConfigReader,
	redisLock *lock.RedisLock,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	searchCfg engine.SearchConfig,
	lockTTLPerGen time.Duration,
) *GenerationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationService{
		loader:        loader,
		writer:        writer,
		departments:   departments,
		config:        config,
		lock:          redisLock,
		metrics:       metrics,
		validator:     validate,
		logger:        logger,
		searchCfg:     searchCfg,
		lockTTLPerGen: lockTTLPerGen,
	}
}

func lockKey(departmentKey, termInstance string) string {
	return fmt.Sprintf("lock:dept:%s:%s", departmentKey, termInstance)
}

// GenerateDepartment runs the full loader -> search -> writer pipeline for
// one department, scoped to a term instance (the currently active one if
// req.TermInstance is empty).
func (s *GenerationService) GenerateDepartment(ctx context.Context, departmentKey string, req dto.GenerateDepartmentRequest) (*dto.GenerationReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, 400, "invalid generation request")
	}

	termInstance := req.TermInstance
	var parity *models.SemesterParity
	if req.Parity != "" {
		p := models.SemesterParity(req.Parity)
		parity = &p
	}
	if termInstance == "" || parity == nil {
		sysConfig, err := s.config.FindActive(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, 500, "load system configuration")
		}
		if termInstance == "" {
			termInstance = sysConfig.SemesterInstance()
		}
		if parity == nil {
			parity = &sysConfig.ActiveSemesterType
		}
	}

	key := lockKey(departmentKey, termInstance)
	ttl := time.Duration(s.searchCfg.Generations) * s.lockTTLPerGen
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	handle, acquired, err := s.lock.TryAcquire(ctx, key, ttl)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, 500, "acquire generation lock")
	}
	if !acquired {
		if s.metrics != nil {
			s.metrics.ObserveLockContention(departmentKey)
		}
		return nil, appErrors.Clone(appErrors.ErrConflict, "a generation run is already in progress for this department and term")
	}
	defer func() {
		if releaseErr := s.lock.Release(context.Background(), handle); releaseErr != nil {
			s.logger.Sugar().Warnw("failed to release generation lock", "key", key, "error", releaseErr)
		}
	}()

	department, err := s.departments.FindByKey(ctx, departmentKey)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, 404, "department not found")
	}

	problem, err := s.loader.LoadDepartment(ctx, departmentKey, termInstance, parity)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	search := engine.NewSearch(s.searchCfg, seedFromKey(key), s.logger)
	result := search.Run(ctx, problem, nil)
	duration := time.Since(start)

	if s.metrics != nil {
		s.metrics.ObserveGenerationRun(departmentKey, duration, result.Generations, result.Best.Fitness, result.Converged)
	}

	report, err := s.writer.Commit(ctx, department, problem, result)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, 500, "commit generated timetable")
	}

	timetables := make(map[string]dto.GenerationReportSemester, len(report.Timetables))
	for semesterID, semester := range report.Timetables {
		classes := make(map[string]dto.GenerationReportClass, len(semester.Classes))
		for classID, class := range semester.Classes {
			classes[classID] = dto.GenerationReportClass{
				ClassName:  class.ClassName,
				EntryCount: class.EntryCount,
			}
		}
		timetables[semesterID] = dto.GenerationReportSemester{
			SemesterNumber: semester.SemesterNumber,
			SemesterName:   semester.SemesterName,
			Classes:        classes,
		}
	}

	return &dto.GenerationReport{
		Success: report.Success,
		Department: dto.GenerationReportDepartment{
			Key:  report.Department.Key,
			Name: report.Department.Name,
			Code: report.Department.Code,
		},
		Timetables:     timetables,
		TotalEntries:   report.TotalEntries,
		ClassesCount:   report.ClassesCount,
		SemestersCount: report.SemestersCount,
		FinalFitness:   report.FinalFitness,
		GenerationsRun: report.GenerationsRun,
	}, nil
}

// GenerateSemester runs GenerateDepartment for every department in
// departmentKeys, continuing past individual failures so one misconfigured
// department does not block the rest.
func (s *GenerationService) GenerateSemester(ctx context.Context, departmentKeys []string, req dto.GenerateSemesterRequest) (*dto.GenerateSemesterResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, 400, "invalid generation request")
	}

	response := &dto.GenerateSemesterResponse{Parity: req.Parity}
	for _, key := range departmentKeys {
		report, err := s.GenerateDepartment(ctx, key, dto.GenerateDepartmentRequest{TermInstance: req.TermInstance, Parity: req.Parity})
		if err != nil {
			s.logger.Sugar().Errorw("department generation failed", "department", key, "error", err)
			continue
		}
		response.Reports = append(response.Reports, *report)
	}
	return response, nil
}

func seedFromKey(key string) int64 {
	var seed int64
	for _, r := range key {
		seed = seed*31 + int64(r)
	}
	if seed < 0 {
		seed = -seed
	}
	return seed
}
