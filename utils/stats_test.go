package utils

import (
	"bytes"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStatsUpdate(t *testing.T) {
	s := NewStats()
	s.Update(3, 10, 2, 1, 100*time.Millisecond)

	if s.TotalGenerations != 3 || s.Population != 10 || s.Births != 2 || s.Deaths != 1 {
		t.Errorf("unexpected stats: %+v", s)
	}
	if math.Abs(s.GenerationsPerSecond-10) > 0.001 {
		t.Errorf("GenerationsPerSecond = %v, want 10", s.GenerationsPerSecond)
	}
}

func TestPopulationSummary(t *testing.T) {
	tests := []struct {
		name        string
		populations []int
		mean, std   float64
	}{
		{"empty", nil, 0, 0},
		{"single", []int{7}, 7, 0},
		{"constant", []int{4, 4, 4}, 4, 0},
		{"spread", []int{2, 4, 4, 4, 5, 5, 7, 9}, 5, 2.138},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStats()
			for i, p := range tt.populations {
				s.Update(i, p, 0, 0, 0)
			}
			mean, std := s.PopulationSummary()
			if math.Abs(mean-tt.mean) > 0.001 || math.Abs(std-tt.std) > 0.001 {
				t.Errorf("PopulationSummary() = (%v, %v), want (%v, %v)", mean, std, tt.mean, tt.std)
			}
		})
	}
}

func TestPopulationWindow(t *testing.T) {
	s := NewStats()
	for i := range populationWindow * 2 {
		s.Update(i, i, 0, 0, 0)
	}
	if len(s.window) != populationWindow {
		t.Fatalf("window length = %d, want %d", len(s.window), populationWindow)
	}
	mean, _ := s.PopulationSummary()
	// window holds populationWindow..2*populationWindow-1
	want := float64(populationWindow) + float64(populationWindow-1)/2
	if math.Abs(mean-want) > 0.001 {
		t.Errorf("mean = %v, want %v", mean, want)
	}

	s.Reset()
	if mean, _ := s.PopulationSummary(); mean != 0 {
		t.Errorf("mean after Reset = %v", mean)
	}
}

func TestStatsLogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := NewStats()
	s.Update(12, 40, 3, 5, 0)
	logger.Info("generation", "stats", s)

	out := buf.String()
	for _, want := range []string{"stats.generation=12", "stats.population=40", "stats.births=3", "stats.deaths=5"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestStatsSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewStatsSink(&buf)

	for gen := range 3 {
		if err := sink.Write(Record{Generation: gen, Population: 10 + gen}); err != nil {
			t.Fatal(err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "generation,population,births,deaths") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], "2,12,") {
		t.Errorf("last row = %q", lines[3])
	}
}

func TestNilStatsSink(t *testing.T) {
	sink, err := CreateStatsSink("")
	if err != nil || sink != nil {
		t.Fatalf("CreateStatsSink(\"\") = %v, %v", sink, err)
	}
	if err := sink.Write(Record{}); err != nil {
		t.Errorf("nil sink Write: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Errorf("nil sink Close: %v", err)
	}
}

func TestCreateStatsSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")
	sink, err := CreateStatsSink(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := sink.Write(Record{Generation: 1, Population: 5}); err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "1,5,") {
		t.Errorf("file contents = %q", data)
	}
}
