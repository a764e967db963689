package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"descriptive_stats/config"
	"descriptive_stats/input"
	"descriptive_stats/report"
	"descriptive_stats/stats"
)

var errComputation = errors.New("statistics computation failed")

var computeFunc = stats.Compute

// analyze validates in, computes its statistics and assembles the report.
// Nothing is returned unless every step succeeds.
func analyze(in input.Input) (doc report.Document, err error) {
	if err := input.Validate(in.Sample); err != nil {
		return report.Document{}, err
	}

	defer func() {
		if r := recover(); r != nil {
			doc = report.Document{}
			err = fmt.Errorf("%w: %v", errComputation, r)
		}
	}()

	res, err := computeFunc(in.Sample)
	if err != nil {
		return report.Document{}, fmt.Errorf("%w: %v", errComputation, err)
	}
	doc, err = report.NewDocument(string(in.Source), in.Column, in.Sample, res)
	if err != nil {
		return report.Document{}, fmt.Errorf("%w: %v", errComputation, err)
	}
	return doc, nil
}

// userMessage is what the person who submitted the data gets to see.
func userMessage(err error) string {
	if errors.Is(err, errComputation) {
		return errComputation.Error()
	}
	return err.Error()
}

func readInput(cfg config.Config) (input.Input, error) {
	if cfg.CSVPath != "" {
		f, err := os.Open(cfg.CSVPath)
		if err != nil {
			return input.Input{}, fmt.Errorf("%w: %w", input.ErrUnreadableCSV, err)
		}
		defer f.Close()
		return input.CSV(f, cfg.Column)
	}

	data := cfg.Data
	if data == "" {
		data = input.DefaultManualData
	}
	return input.Manual(data)
}

// runOnce analyzes the configured input and prints the report to out.
func runOnce(cfg config.Config, out io.Writer) error {
	kind, err := report.ParsePlotKind(cfg.Plot)
	if err != nil {
		return err
	}

	in, err := readInput(cfg)
	if err != nil {
		return err
	}
	doc, err := analyze(in)
	if err != nil {
		return err
	}
	zap.L().Debug("analysis finished", zap.String("source", doc.Source), zap.Int("count", doc.Count))

	if err := doc.WriteText(out, kind); err != nil {
		return err
	}
	if cfg.PNGPath == "" {
		return nil
	}

	f, err := os.Create(cfg.PNGPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", cfg.PNGPath, err)
	}
	if err := report.RenderPNG(f, in.Sample, doc.Result, kind); err != nil {
		f.Close()
		return fmt.Errorf("render chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	zap.L().Info("chart written", zap.String("path", cfg.PNGPath), zap.String("plot", string(kind)))
	return nil
}
