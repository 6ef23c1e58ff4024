package utils

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/stat"
)

const populationWindow = 50

// Stats for performance monitoring
type Stats struct {
	GenerationsPerSecond float64
	TotalGenerations     int
	Population           int
	Births               int
	Deaths               int
	StartTime            time.Time

	window []float64 // recent populations, oldest first
}

func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

func (s *Stats) Update(generation, population, births, deaths int, duration time.Duration) {
	s.TotalGenerations = generation
	s.Population = population
	s.Births = births
	s.Deaths = deaths
	if duration > 0 {
		s.GenerationsPerSecond = 1.0 / duration.Seconds()
	}

	s.window = append(s.window, float64(population))
	if len(s.window) > populationWindow {
		s.window = s.window[1:]
	}
}

// Reset drops the population window, used when the universe restarts
func (s *Stats) Reset() {
	s.window = s.window[:0]
}

// PopulationSummary returns the mean and standard deviation of the recent
// population window
func (s *Stats) PopulationSummary() (mean, stddev float64) {
	switch len(s.window) {
	case 0:
		return 0, 0
	case 1:
		return s.window[0], 0
	}
	return stat.MeanStdDev(s.window, nil)
}

// Record returns the CSV row for the current generation
func (s *Stats) Record() Record {
	mean, stddev := s.PopulationSummary()
	return Record{
		Generation:     s.TotalGenerations,
		Population:     s.Population,
		Births:         s.Births,
		Deaths:         s.Deaths,
		PopulationMean: mean,
		PopulationStd:  stddev,
		GensPerSecond:  s.GenerationsPerSecond,
	}
}

// LogValue implements slog.LogValuer for structured logging
func (s *Stats) LogValue() slog.Value {
	mean, stddev := s.PopulationSummary()
	return slog.GroupValue(
		slog.Int("generation", s.TotalGenerations),
		slog.Int("population", s.Population),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Float64("population_mean", mean),
		slog.Float64("population_std", stddev),
		slog.Float64("gen_per_sec", s.GenerationsPerSecond),
		slog.Duration("runtime", time.Since(s.StartTime)),
	)
}
