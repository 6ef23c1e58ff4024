package main

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-universe/model"
	"github.com/sheikhrachel/go-universe/utils"
)

// runResult summarises a headless run
type runResult struct {
	Generations int
	Restarts    int
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// buildUniverse creates a universe from the configuration
func buildUniverse(config utils.Config, rng *rand.Rand, pool *model.BufferPool) (*model.Universe, error) {
	opts := []model.Option{
		model.WithRand(rng),
		model.WithDensity(config.RandomDensity),
		model.WithWorkers(config.Workers),
	}
	if !config.Glider {
		opts = append(opts, model.WithoutGlider())
	}
	if pool != nil {
		opts = append(opts, model.WithPool(pool))
	}

	u, err := model.NewUniverse(config.Width, config.Height, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "[buildUniverse] failed to create universe")
	}
	return u, nil
}

// checkRestartConditions determines if the universe should restart
func checkRestartConditions(livingCells, stagnantCount int, config utils.Config) (bool, string) {
	if livingCells == 0 {
		return true, "extinction"
	}
	if config.StagnationThreshold > 0 && stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	return false, ""
}

// runHeadless drives the universe until ctx is cancelled, max generations
// is reached or the universe dies out without auto restart
func runHeadless(
	ctx context.Context,
	config utils.Config,
	renderer model.Renderer,
	sink *utils.StatsSink,
	logger *slog.Logger,
) (runResult, error) {
	var (
		result        runResult
		pool          *model.BufferPool
		rng           = newRand(config.Seed)
		stats         = utils.NewStats()
		stagnantCount = 0
		lastFrameTime = time.Now()
	)
	if config.UseMemoryPool {
		pool = model.NewBufferPool()
	}

	u, err := buildUniverse(config, rng, pool)
	if err != nil {
		return result, err
	}
	defer func() { u.Release() }()

	logger.Info("universe created",
		"width", u.Width(),
		"height", u.Height(),
		"living", u.CountLiving(),
		"workers", config.Workers,
	)

	for {
		frameStart := time.Now()
		livingCells := u.CountLiving()
		change := u.LastChange()
		stats.Update(result.Generations, livingCells, change.Births, change.Deaths, frameStart.Sub(lastFrameTime))
		lastFrameTime = frameStart

		u.UpdateHistory()
		if u.IsStagnant() {
			stagnantCount++
		} else {
			stagnantCount = 0
		}

		if renderer != nil {
			if err := renderer.Clear(); err != nil {
				return result, errors.Wrap(err, "[runHeadless] failed to clear")
			}
			if err := renderer.Display(u); err != nil {
				return result, errors.Wrap(err, "[runHeadless] failed to display")
			}
		}
		if err := sink.Write(stats.Record()); err != nil {
			return result, err
		}

		if config.MaxGenerations > 0 && result.Generations >= config.MaxGenerations {
			logger.Info("reached maximum generations", "stats", stats)
			return result, nil
		}

		shouldRestart, reason := checkRestartConditions(livingCells, stagnantCount, config)
		switch {
		case shouldRestart && config.AutoRestart:
			logger.Info("restarting", "reason", reason, "stats", stats)
			next, err := buildUniverse(config, rng, pool)
			if err != nil {
				return result, err
			}
			u.Release()
			u = next
			stats.Reset()
			stagnantCount = 0
			result.Restarts++
		case livingCells == 0:
			logger.Info("universe is extinct", "stats", stats)
			return result, nil
		case config.AutoRestart && stagnantCount >= 2 && config.InjectionCount > 0:
			// Inject some life to try to break the stagnation
			u.InjectRandomLife(rng, config.InjectionCount)
		}

		u.Tick()
		result.Generations++

		if err := wait(ctx, config.FrameRate); err != nil {
			logger.Info("shutting down", "stats", stats)
			return result, nil
		}
	}
}

// wait sleeps for d or until ctx is done
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
