package scheduler

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/showrunner-hq/showrunner-api/internal/models"
)

// Generator is the contract consumed from the generative text service. The
// returned text may be invalid, truncated, or wrapped in formatting noise;
// callers never trust it without going through the parser.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Observer receives generation telemetry. All methods must tolerate being
// called from a single goroutine per run.
type Observer interface {
	ObserveBatch(outcome string)
	ObserveRecovery(layer string)
}

type nopObserver struct{}

func (nopObserver) ObserveBatch(string)    {}
func (nopObserver) ObserveRecovery(string) {}

// Engine runs the scheduling pipeline: aggregate, profile, partition, then
// per batch either the generative path or the deterministic packer, and
// finally assembly. Batches run sequentially so day numbers ascend across
// batches and the provider sees a conservative request rate.
type Engine struct {
	gen      Generator
	logger   *zap.Logger
	observer Observer
	cfg      Config
}

// NewEngine wires the engine. gen may be nil, in which case every batch is
// planned deterministically.
func NewEngine(gen Generator, logger *zap.Logger, observer Observer, cfg Config) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Engine{gen: gen, logger: logger, observer: observer, cfg: cfg.withDefaults()}
}

// Generate produces a shooting schedule for the input. The only fatal error
// is missing breakdown data; generative-service and parse failures are
// absorbed per batch by the deterministic packer.
func (e *Engine) Generate(ctx context.Context, in Input) (*models.ShootingSchedule, error) {
	scenes, err := AggregateScenes(in.Breakdowns, in.Episodes)
	if err != nil {
		return nil, err
	}
	profiles := ProfileLocations(scenes, in.LocationGroups)
	batches := PartitionBatches(scenes, profiles, e.cfg.BatchSceneLimit)

	e.logger.Info("schedule_run_started",
		zap.String("mode", string(in.Mode)),
		zap.Int("episodes", len(in.Episodes)),
		zap.Int("scenes", len(scenes)),
		zap.Int("locations", len(profiles.Order)),
		zap.Int("batches", len(batches)),
	)

	batchDays := make([][]models.ShootingDay, 0, len(batches))
	for _, batch := range batches {
		batchDays = append(batchDays, e.generateBatch(ctx, in, batch, profiles, len(batches)))
	}

	schedule := AssembleSchedule(in.Mode, batchDays, profiles)
	if schedule.TotalShootDays > SeriesDayCeiling {
		// Advisory ceiling only; the schedule still ships.
		e.logger.Warn("schedule_exceeds_day_ceiling",
			zap.Int("total_days", schedule.TotalShootDays),
			zap.Int("ceiling", SeriesDayCeiling),
		)
	}
	e.logger.Info("schedule_run_finished", zap.Int("total_days", schedule.TotalShootDays))
	return schedule, nil
}

// generateBatch tries the generative path and falls back to deterministic
// packing on any failure. Day numbers here are batch-local; the assembler
// renumbers globally.
func (e *Engine) generateBatch(ctx context.Context, in Input, batch Batch, profiles *LocationProfiles, totalBatches int) []models.ShootingDay {
	log := e.logger.With(zap.Int("batch", batch.Index+1), zap.Strings("locations", batch.Locations))
	log.Info("batch_started", zap.Int("scenes", batch.SceneCount()))

	if e.gen == nil || in.DeterministicOnly {
		log.Info("batch_fallback_engaged", zap.String("reason", "generator disabled"))
		e.observer.ObserveBatch("fallback")
		return FallbackSchedule(batch.Scenes, profiles, e.cfg)
	}

	req, err := BuildBatchRequest(in, batch, profiles, totalBatches, e.cfg)
	if err != nil {
		log.Warn("batch_fallback_engaged", zap.String("reason", "request build failed"), zap.Error(err))
		e.observer.ObserveBatch("fallback")
		return FallbackSchedule(batch.Scenes, profiles, e.cfg)
	}

	raw, err := e.gen.Generate(ctx, req.System, req.User)
	if err != nil {
		log.Warn("batch_fallback_engaged", zap.String("reason", "generative call failed"), zap.Error(err))
		e.observer.ObserveBatch("fallback")
		return FallbackSchedule(batch.Scenes, profiles, e.cfg)
	}

	rawDays, layer, err := ParseDays(raw)
	if err != nil {
		fields := []zap.Field{zap.String("reason", "parse failed"), zap.Error(err)}
		var parseErr *ScheduleParseError
		if errors.As(err, &parseErr) {
			fields = append(fields,
				zap.Int("response_length", parseErr.Length),
				zap.String("response_head", parseErr.Head),
				zap.String("response_tail", parseErr.Tail),
			)
		}
		log.Warn("batch_fallback_engaged", fields...)
		e.observer.ObserveBatch("fallback")
		return FallbackSchedule(batch.Scenes, profiles, e.cfg)
	}
	if layer != RecoveryNone {
		log.Info("parse_recovery_used", zap.String("layer", string(layer)))
		e.observer.ObserveRecovery(string(layer))
	}

	log.Info("batch_finished", zap.Int("days", len(rawDays)))
	e.observer.ObserveBatch("generative")
	return MapDays(rawDays, profiles)
}
