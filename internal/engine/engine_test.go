package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"businesscase/internal/db"
	"businesscase/internal/domain"
	"businesscase/internal/engine"
	"businesscase/internal/events"
	"businesscase/internal/importer"
	"businesscase/internal/logger"
	"businesscase/internal/migrate"
	"businesscase/internal/render"
	"businesscase/internal/repo"
)

var frozen = time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)

type testEnv struct {
	Engine engine.Engine
	Ctx    context.Context
	Dir    string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	conn, err := db.Open(db.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if _, err := migrate.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	dir := filepath.Join(t.TempDir(), "output")
	r := render.New(render.Branding{})
	r.Now = func() time.Time { return frozen }
	eng := engine.New(conn, r, dir, logger.NewTestLogger(t))
	eng.Now = func() time.Time { return frozen }
	return testEnv{Engine: eng, Ctx: context.Background(), Dir: dir}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestGenerateWritesThreeArtifacts(t *testing.T) {
	env := newTestEnv(t)
	rec := domain.NewRecord()
	rec[domain.FieldProcessName] = "Løn/Udbetaling"

	gen, err := env.Engine.Generate(env.Ctx, rec)
	require.NoError(t, err)
	require.Len(t, gen.Artifacts, 3)
	assert.Equal(t, "Løn/Udbetaling", gen.ProcessName)
	assert.Equal(t, "2025-03-14T09:26:00Z", gen.CreatedAt)

	assert.Equal(t, []string{
		"Loen_Udbetaling_BC_20250314_0926.xlsx",
		"Loen_Udbetaling_Ledelsesbeskrivelse_20250314_0926.docx",
		"Loen_Udbetaling_PDD_RTS_20250314_0926.docx",
	}, listDir(t, env.Dir))

	for _, a := range gen.Artifacts {
		info, err := os.Stat(a.Path)
		require.NoError(t, err)
		assert.Equal(t, a.Size, info.Size(), a.Name)
	}

	stored, err := env.Engine.GetGeneration(env.Ctx, gen.ID)
	require.NoError(t, err)
	assert.Equal(t, gen, stored)

	evts, err := env.Engine.ListEvents(env.Ctx, gen.ID, 0)
	require.NoError(t, err)
	require.Len(t, evts, 1)
	assert.Equal(t, events.TypeCaseGenerated, evts[0].Type)
}

func TestGenerateFallbackName(t *testing.T) {
	env := newTestEnv(t)
	rec := domain.NewRecord()
	rec[domain.FieldProcessName] = "   "

	gen, err := env.Engine.Generate(env.Ctx, rec)
	require.NoError(t, err)
	for _, a := range gen.Artifacts {
		assert.Contains(t, a.Name, "RPA_BusinessCase_")
	}
}

func TestGenerateMetricsMatchCalculator(t *testing.T) {
	env := newTestEnv(t)
	rec := domain.NewRecord()
	gen, err := env.Engine.Generate(env.Ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, env.Engine.Metrics(rec), gen.Metrics)
}

func TestGenerateFailsWithoutWritableOutput(t *testing.T) {
	env := newTestEnv(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	env.Engine.OutputDir = filepath.Join(blocker, "sub")

	_, err := env.Engine.Generate(env.Ctx, domain.NewRecord())
	require.ErrorIs(t, err, engine.ErrGeneration)

	list, err := env.Engine.ListGenerations(env.Ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	evts, err := env.Engine.ListEvents(env.Ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, evts, 1)
	assert.Equal(t, events.TypeCaseFailed, evts[0].Type)
}

func TestGenerateWithoutJournal(t *testing.T) {
	dir := t.TempDir()
	eng := engine.New(nil, nil, dir, nil)
	eng.Now = func() time.Time { return frozen }
	gen, err := eng.Generate(context.Background(), domain.NewRecord())
	require.NoError(t, err)
	assert.Len(t, gen.Artifacts, 3)

	_, err = eng.GetGeneration(context.Background(), gen.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestImportsAreJournaled(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.Engine.ImportJSON(env.Ctx, []byte(`{"procesnavn":"Faktura"}`))
	require.NoError(t, err)
	assert.Equal(t, "Faktura", res.Record[domain.FieldProcessName])

	res, err = env.Engine.ImportDocument(env.Ctx, nil)
	require.ErrorIs(t, err, importer.ErrUnreadable)
	assert.Equal(t, importer.MsgNoDocument, res.Record[domain.FieldRawData])

	q, err := env.Engine.Questionnaire(nil)
	require.NoError(t, err)
	res, err = env.Engine.ImportDocument(env.Ctx, q)
	require.NoError(t, err)
	assert.Equal(t, importer.StatusMatched, res.Status)

	evts, err := env.Engine.ListEvents(env.Ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, evts, 3)
	assert.Equal(t, events.TypeImportDocument, evts[0].Type)
	assert.Equal(t, events.TypeImportJSON, evts[2].Type)
}

func TestWriteFileAtomicReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.docx")
	require.NoError(t, engine.WriteFileAtomic(path, []byte("first"), 0o644))
	require.NoError(t, engine.WriteFileAtomic(path, []byte("second"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.Equal(t, []string{"a.docx"}, listDir(t, dir))
}

func TestFailedGenerationKeepsEarlierFiles(t *testing.T) {
	env := newTestEnv(t)
	rec := domain.NewRecord()
	rec[domain.FieldProcessName] = "Onboarding"

	first, err := env.Engine.Generate(env.Ctx, rec)
	require.NoError(t, err)
	before := map[string][]byte{}
	for _, a := range first.Artifacts {
		data, err := os.ReadFile(a.Path)
		require.NoError(t, err)
		before[a.Name] = data
	}

	// same minute, but the PDD target is now a directory
	pdd := filepath.Join(env.Dir, "Onboarding_PDD_RTS_20250314_0926.docx")
	require.NoError(t, os.Remove(pdd))
	require.NoError(t, os.MkdirAll(filepath.Join(pdd, "keep"), 0o755))

	_, err = env.Engine.Generate(env.Ctx, rec)
	require.ErrorIs(t, err, engine.ErrGeneration)

	for name, data := range before {
		if filepath.Join(env.Dir, name) == pdd {
			continue
		}
		got, err := os.ReadFile(filepath.Join(env.Dir, name))
		require.NoError(t, err, name)
		assert.Equal(t, data, got, name)
	}
	assert.Equal(t, []string{
		"Onboarding_BC_20250314_0926.xlsx",
		"Onboarding_Ledelsesbeskrivelse_20250314_0926.docx",
		"Onboarding_PDD_RTS_20250314_0926.docx",
	}, listDir(t, env.Dir))
}

func TestGenerateDatesWorkbookWithEngineClock(t *testing.T) {
	dir := t.TempDir()
	eng := engine.New(nil, render.New(render.Branding{}), dir, nil)
	eng.Now = func() time.Time { return frozen }

	gen, err := eng.Generate(context.Background(), domain.NewRecord())
	require.NoError(t, err)
	var workbook string
	for _, a := range gen.Artifacts {
		if a.Kind == domain.ArtifactSpreadsheet {
			workbook = a.Path
		}
	}
	require.NotEmpty(t, workbook)

	f, err := excelize.OpenFile(workbook)
	require.NoError(t, err)
	defer f.Close()
	date, err := f.GetCellValue(render.SheetCover, "B6")
	require.NoError(t, err)
	assert.Equal(t, "14-03-2025", date)
}

func TestWriteFilesAtomicLeavesTargetsOnFailure(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xlsx")
	b := filepath.Join(dir, "b.docx")
	require.NoError(t, os.WriteFile(a, []byte("old"), 0o644))
	require.NoError(t, os.Mkdir(b, 0o755))

	err := engine.WriteFilesAtomic([]engine.PendingFile{
		{Path: a, Data: []byte("new")},
		{Path: b, Data: []byte("new")},
	}, 0o644)
	require.Error(t, err)

	data, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	assert.Equal(t, []string{"a.xlsx", "b.docx"}, listDir(t, dir))
}

func TestWriteFilesAtomicReplacesBatch(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xlsx")
	b := filepath.Join(dir, "b.docx")
	require.NoError(t, os.WriteFile(a, []byte("old"), 0o644))

	require.NoError(t, engine.WriteFilesAtomic([]engine.PendingFile{
		{Path: a, Data: []byte("new a")},
		{Path: b, Data: []byte("new b")},
	}, 0o644))

	for path, want := range map[string]string{a: "new a", b: "new b"} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}
	assert.Equal(t, []string{"a.xlsx", "b.docx"}, listDir(t, dir))
}
