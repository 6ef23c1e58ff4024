package utils

import (
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// Record is one CSV row of per-generation statistics
type Record struct {
	Generation     int     `csv:"generation"`
	Population     int     `csv:"population"`
	Births         int     `csv:"births"`
	Deaths         int     `csv:"deaths"`
	PopulationMean float64 `csv:"population_mean"`
	PopulationStd  float64 `csv:"population_std"`
	GensPerSecond  float64 `csv:"gen_per_sec"`
}

// StatsSink appends records to a CSV stream. A nil sink discards writes.
type StatsSink struct {
	out           io.Writer
	closer        io.Closer
	headerWritten bool
}

func NewStatsSink(out io.Writer) *StatsSink {
	return &StatsSink{out: out}
}

// CreateStatsSink creates filename and returns a sink writing to it.
// An empty filename disables output and returns a nil sink.
func CreateStatsSink(filename string) (*StatsSink, error) {
	if filename == "" {
		return nil, nil
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "[CreateStatsSink] failed to create file: %+v", filename)
	}
	return &StatsSink{out: f, closer: f}, nil
}

// Write appends one record, writing the header first if needed
func (s *StatsSink) Write(rec Record) error {
	if s == nil {
		return nil
	}

	records := []Record{rec}
	if !s.headerWritten {
		if err := gocsv.Marshal(records, s.out); err != nil {
			return errors.Wrap(err, "[StatsSink.Write] failed to write header")
		}
		s.headerWritten = true
		return nil
	}

	if err := gocsv.MarshalWithoutHeaders(records, s.out); err != nil {
		return errors.Wrapf(err, "[StatsSink.Write] failed to write generation %d", rec.Generation)
	}
	return nil
}

func (s *StatsSink) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
