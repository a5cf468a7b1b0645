package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mvfrancisco/extrato/pkg/config"
	"github.com/mvfrancisco/extrato/pkg/csv"
	"github.com/mvfrancisco/extrato/pkg/ingest"
	"github.com/mvfrancisco/extrato/pkg/models"
)

// Processor drives the import pipeline from the filesystem: it loads
// statement files, runs the engine and writes a review CSV per successful
// file.
type Processor struct {
	config *config.Config
	engine *ingest.Engine
	logger *log.Logger
}

func NewProcessor(cfg *config.Config, logger *log.Logger) *Processor {
	return &Processor{
		config: cfg,
		engine: ingest.New(logger),
		logger: logger,
	}
}

// Engine exposes the underlying ingestion engine.
func (p *Processor) Engine() *ingest.Engine {
	return p.engine
}

func supportedStatement(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", ".xls":
		return true
	}
	return false
}

// ProcessDirectory imports every statement file in dir as one session.
func (p *Processor) ProcessDirectory(ctx context.Context, dir string) ([]models.FileOutcome, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !supportedStatement(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	return p.ProcessPaths(ctx, paths)
}

// ProcessPaths imports the given statement files as one session and
// writes review CSVs next to them (or under the configured output path).
func (p *Processor) ProcessPaths(ctx context.Context, paths []string) ([]models.FileOutcome, error) {
	files := make([]ingest.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read statement file %s: %w", path, err)
		}
		files = append(files, ingest.File{Name: filepath.Base(path), Data: data})
	}

	outcomes := p.engine.ParseFiles(ctx, files, "")

	for i, outcome := range outcomes {
		if outcome.Status != models.OutcomeSuccess {
			p.logger.Error("file failed", "file", outcome.FileName, "message", outcome.Message)
			continue
		}

		outPath := p.reviewPath(paths[i])
		if err := os.WriteFile(outPath, csv.Render(outcome.Result.Valid(), nil), 0o644); err != nil {
			return outcomes, fmt.Errorf("error writing review file: %w", err)
		}
		p.logger.Info("review written", "input", paths[i], "output", outPath)
	}

	return outcomes, nil
}

func (p *Processor) reviewPath(inputPath string) string {
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + "-review.csv"
	if p.config.OutputPath != "" {
		return filepath.Join(p.config.OutputPath, name)
	}
	return filepath.Join(filepath.Dir(inputPath), name)
}
