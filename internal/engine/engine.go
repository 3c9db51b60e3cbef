// Package engine runs a generation: compute metrics, render every artifact,
// write them to the output directory and journal the result.
package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"businesscase/internal/domain"
	"businesscase/internal/events"
	"businesscase/internal/importer"
	"businesscase/internal/logger"
	"businesscase/internal/naming"
	"businesscase/internal/render"
	"businesscase/internal/repo"
	"businesscase/internal/roi"
	"businesscase/internal/telemetry"
)

// ErrGeneration wraps every failure while rendering or writing artifacts.
var ErrGeneration = errors.New("generation failed")

type Engine struct {
	// DB is the session journal. When nil nothing is journaled.
	DB        *sql.DB
	Repo      repo.Repo
	Events    events.Writer
	Renderer  *render.Renderer
	OutputDir string
	Log       logger.Logger
	Now       func() time.Time
}

func New(db *sql.DB, r *render.Renderer, outputDir string, log logger.Logger) Engine {
	if log == nil {
		log = logger.NewNop()
	}
	return Engine{
		DB:        db,
		Repo:      repo.Repo{DB: db},
		Events:    events.Writer{DB: db},
		Renderer:  r,
		OutputDir: outputDir,
		Log:       log,
		Now:       time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) log() logger.Logger {
	if e.Log != nil {
		return e.Log
	}
	return logger.NewNop()
}

func (e Engine) renderer() *render.Renderer {
	if e.Renderer != nil {
		return e.Renderer
	}
	return &render.Renderer{Now: e.now}
}

// Metrics computes the figures for rec without writing anything.
func (e Engine) Metrics(rec domain.Record) domain.Metrics {
	return roi.Calculate(rec)
}

// Generate renders the workbook and both documents for rec and writes them
// to the output directory. The three files are written as one batch: either
// all of them replace their targets or none of the targets change.
func (e Engine) Generate(ctx context.Context, rec domain.Record) (gen domain.Generation, err error) {
	start := e.now()
	began := time.Now()
	log := e.log()
	defer func() {
		telemetry.GenerationDuration.Observe(time.Since(began).Seconds())
		if err != nil {
			telemetry.GenerationsTotal.WithLabelValues(telemetry.OutcomeFailed).Inc()
			log.WithError(err).Error("generation failed", logger.Fields{"process": rec.Get(domain.FieldProcessName)})
			e.journalFailure(ctx, rec, err)
			return
		}
		telemetry.GenerationsTotal.WithLabelValues(telemetry.OutcomeOK).Inc()
	}()

	if rec == nil {
		rec = domain.NewRecord()
	}
	if err := ctx.Err(); err != nil {
		return domain.Generation{}, err
	}
	m := roi.Calculate(rec)
	processName := rec.Get(domain.FieldProcessName)

	type rendered struct {
		kind domain.ArtifactKind
		data []byte
	}
	kinds := render.Kinds()
	files := make([]rendered, len(kinds))
	// one clock reading names the files and dates the cover sheet
	r := e.renderer().At(start)
	// renderers only read rec and m
	var g errgroup.Group
	for i, kind := range kinds {
		g.Go(func() error {
			data, rerr := r.Render(kind, rec, m)
			if rerr != nil {
				return fmt.Errorf("render %s: %v", kind, rerr)
			}
			files[i] = rendered{kind: kind, data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Generation{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	dir := e.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.Generation{}, fmt.Errorf("%w: create output dir: %v", ErrGeneration, err)
	}

	gen = domain.Generation{
		ID:          uuid.NewString(),
		ProcessName: processName,
		CreatedAt:   start.UTC().Format(time.RFC3339),
		Metrics:     m,
	}
	pending := make([]PendingFile, 0, len(files))
	for _, f := range files {
		name := naming.FileName(processName, f.kind, start)
		path := filepath.Join(dir, name)
		pending = append(pending, PendingFile{Path: path, Data: f.data})
		gen.Artifacts = append(gen.Artifacts, domain.Artifact{
			Kind: f.kind,
			Name: name,
			Path: path,
			Size: int64(len(f.data)),
		})
	}
	if werr := WriteFilesAtomic(pending, 0o644); werr != nil {
		return domain.Generation{}, fmt.Errorf("%w: write artifacts: %v", ErrGeneration, werr)
	}
	for _, f := range files {
		telemetry.ArtifactBytes.WithLabelValues(string(f.kind)).Add(float64(len(f.data)))
	}

	if err := e.journalGeneration(ctx, gen, rec); err != nil {
		// the files are on disk; a journal fault only costs the history entry
		log.WithError(err).Warn("journal generation", logger.Fields{"generation": gen.ID})
	}
	log.Info("generated business case", logger.Fields{
		"generation": gen.ID,
		"process":    processName,
		"savings":    m.AnnualSavings,
		"files":      len(gen.Artifacts),
	})
	return gen, nil
}

func (e Engine) journalGeneration(ctx context.Context, gen domain.Generation, rec domain.Record) error {
	if e.DB == nil {
		return nil
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.Repo.InsertGenerationTx(ctx, tx, gen, rec); err != nil {
		return err
	}
	names := make([]string, 0, len(gen.Artifacts))
	for _, a := range gen.Artifacts {
		names = append(names, a.Name)
	}
	if err := e.Events.Append(ctx, tx, events.TypeCaseGenerated, gen.ID, events.EventPayload{
		"process_name":   gen.ProcessName,
		"annual_savings": gen.Metrics.AnnualSavings,
		"files":          names,
	}); err != nil {
		return err
	}
	return tx.Commit()
}

func (e Engine) journalFailure(ctx context.Context, rec domain.Record, cause error) {
	if e.DB == nil {
		return
	}
	// the request context may already be cancelled
	ctx = context.WithoutCancel(ctx)
	if err := e.Events.Record(ctx, events.TypeCaseFailed, "", events.EventPayload{
		"process_name": rec.Get(domain.FieldProcessName),
		"error":        cause.Error(),
	}); err != nil {
		e.log().WithError(err).Warn("journal failure", nil)
	}
}

// ImportJSON rebuilds a record from an uploaded JSON file and journals the
// outcome.
func (e Engine) ImportJSON(ctx context.Context, raw []byte) (importer.Result, error) {
	res, err := importer.ImportJSON(raw)
	e.recordImport(ctx, events.TypeImportJSON, "json", res, err)
	return res, err
}

// ImportDocument rebuilds a record from an uploaded Word document and
// journals the outcome.
func (e Engine) ImportDocument(ctx context.Context, data []byte) (importer.Result, error) {
	if len(data) == 0 {
		rec := domain.NewRecord()
		rec[domain.FieldRawData] = importer.MsgNoDocument
		res := importer.Result{Record: rec, Status: importer.StatusUnreadable, Message: importer.MsgNoDocument}
		err := fmt.Errorf("%w: empty upload", importer.ErrUnreadable)
		e.recordImport(ctx, events.TypeImportDocument, "docx", res, err)
		return res, err
	}
	res, err := importer.ImportDocumentBytes(data)
	e.recordImport(ctx, events.TypeImportDocument, "docx", res, err)
	return res, err
}

func (e Engine) recordImport(ctx context.Context, evtType, source string, res importer.Result, cause error) {
	telemetry.ImportsTotal.WithLabelValues(source, string(res.Status)).Inc()
	fields := logger.Fields{"source": source, "status": string(res.Status), "matched": res.Matched}
	if cause != nil {
		e.log().WithError(cause).Warn("import rejected", fields)
	} else {
		e.log().Info("import", fields)
	}
	if e.DB == nil {
		return
	}
	payload := events.EventPayload{"status": string(res.Status), "matched": res.Matched}
	if cause != nil {
		payload["error"] = cause.Error()
	}
	if err := e.Events.Record(context.WithoutCancel(ctx), evtType, "", payload); err != nil {
		e.log().WithError(err).Warn("journal import", nil)
	}
}

// Questionnaire renders the fill-in document, prefilled from rec when it is
// not nil.
func (e Engine) Questionnaire(rec domain.Record) ([]byte, error) {
	return e.renderer().Questionnaire(rec)
}

// ListGenerations returns the journaled generations of this session.
func (e Engine) ListGenerations(ctx context.Context, limit int) ([]domain.Generation, error) {
	if e.DB == nil {
		return nil, nil
	}
	return e.Repo.ListGenerations(ctx, limit)
}

// GetGeneration returns one journaled generation.
func (e Engine) GetGeneration(ctx context.Context, id string) (domain.Generation, error) {
	if e.DB == nil {
		return domain.Generation{}, repo.ErrNotFound
	}
	return e.Repo.GetGeneration(ctx, id)
}

// ListEvents returns the session journal.
func (e Engine) ListEvents(ctx context.Context, entityID string, limit int) ([]domain.Event, error) {
	if e.DB == nil {
		return nil, nil
	}
	return e.Repo.ListEvents(ctx, entityID, limit)
}
