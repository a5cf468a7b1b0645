package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mvfrancisco/extrato/pkg/models"
)

// PreviewSize bounds the candidate preview carried by a success outcome.
const PreviewSize = 20

// File is an in-memory upload: a name plus its raw bytes.
type File struct {
	Name string
	Data []byte
}

// Engine wires decoding, delimiter detection, tokenizing, dialect dispatch
// and idempotency-key assignment into one per-file pipeline.
type Engine struct {
	registry *Registry
	logger   *log.Logger
}

// New creates an engine with the built-in dialect registry.
func New(logger *log.Logger) *Engine {
	return &Engine{registry: NewRegistry(logger), logger: logger}
}

// NewWithRegistry creates an engine around a caller-supplied registry.
func NewWithRegistry(registry *Registry, logger *log.Logger) *Engine {
	return &Engine{registry: registry, logger: logger}
}

// Registry exposes the engine's dialect table.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// ParseFiles processes every file independently and concurrently, one
// goroutine per file, and returns outcomes in input order. A failure in
// one file never affects another; panics inside a file's pipeline become
// that file's error outcome. All files share one import session id — the
// caller's when supplied, otherwise a fresh one.
func (e *Engine) ParseFiles(ctx context.Context, files []File, sessionID string) []models.FileOutcome {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	outcomes := make([]models.FileOutcome, len(files))
	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file File) {
			defer wg.Done()
			if ctx.Err() != nil {
				outcomes[i] = models.ErrorOutcome(file.Name, "import aborted")
				return
			}
			outcomes[i] = e.parseFile(file, sessionID)
		}(i, file)
	}
	wg.Wait()

	return outcomes
}

func (e *Engine) parseFile(file File, sessionID string) (outcome models.FileOutcome) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic while parsing file", "file", file.Name, "panic", r)
			outcome = models.ErrorOutcome(file.Name, fmt.Sprintf("internal parser error: %v", r))
		}
	}()

	var (
		rows      [][]string
		text      string
		delimiter string
	)

	switch ext := strings.ToLower(filepath.Ext(file.Name)); ext {
	case ".csv", ".txt":
		text = DecodeText(file.Data)
		delimiter = DetectDelimiter(text)
		rows = Tokenize(text, delimiter)
	case ".xls":
		var err error
		rows, text, err = rowsFromXLS(file.Data)
		if err != nil {
			e.logger.Warn("unreadable workbook", "file", file.Name, "err", err)
			return models.ErrorOutcome(file.Name, "unreadable spreadsheet")
		}
		delimiter = ";"
	case ".pdf":
		return models.ErrorOutcome(file.Name, "pdf import not enabled")
	default:
		return models.ErrorOutcome(file.Name, "unsupported file type")
	}

	if len(rows) == 0 {
		return models.ErrorOutcome(file.Name, "csv header not found")
	}
	header, dataRows := rows[0], rows[1:]

	normalizedHeader := NormalizeHeader(header)
	dialect, found := e.registry.FindByHeader(normalizedHeader)
	if !found {
		e.logger.Debug("no dialect matched", "file", file.Name, "header", normalizedHeader)
		return models.ErrorOutcome(file.Name, "csv header not recognized")
	}

	fileCtx := &models.IngestionContext{
		FileName:         file.Name,
		ImportSessionID:  sessionID,
		Delimiter:        delimiter,
		Header:           header,
		NormalizedHeader: normalizedHeader,
		ParserID:         dialect.ID,
		FileHash:         HashText(text),
	}

	result := dialect.Parse(dataRows, fileCtx)
	if result.HasErrors() {
		return models.ErrorOutcome(file.Name, result.Errors[0])
	}

	AssignKeys(result, fileCtx)

	valid := result.Valid()
	preview := valid
	if len(preview) > PreviewSize {
		preview = preview[:PreviewSize]
	}

	counts := result.Counts()
	e.logger.Info("file parsed",
		"file", file.Name,
		"parser", dialect.ID,
		"valid", counts.Valid,
		"warnings", counts.Warnings,
		"ignored", counts.Ignored,
	)

	return models.SuccessOutcome(file.Name, dialect.ID, result, preview)
}
