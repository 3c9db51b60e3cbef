package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"businesscase/internal/db"
	"businesscase/internal/domain"
	"businesscase/internal/events"
	"businesscase/internal/migrate"
)

func openJournal(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(db.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	_, err = migrate.Migrate(context.Background(), conn)
	require.NoError(t, err)
	return conn
}

func insert(t *testing.T, conn *sql.DB, g domain.Generation, rec domain.Record) {
	t.Helper()
	ctx := context.Background()
	tx, err := conn.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()
	require.NoError(t, Repo{DB: conn}.InsertGenerationTx(ctx, tx, g, rec))
	require.NoError(t, tx.Commit())
}

func generation(id, name, created string) domain.Generation {
	return domain.Generation{
		ID:          id,
		ProcessName: name,
		CreatedAt:   created,
		Metrics:     domain.Metrics{HoursPerYear: 91, AnnualSavings: 21272.73, BreakEvenYears: 2.82},
		Artifacts: []domain.Artifact{
			{Kind: domain.ArtifactSpreadsheet, Name: id + "_BC.xlsx", Path: "/out/" + id + "_BC.xlsx", Size: 10},
			{Kind: domain.ArtifactProcessDoc, Name: id + "_PDD_RTS.docx", Path: "/out/" + id + "_PDD_RTS.docx", Size: 20},
		},
	}
}

func TestGenerationRoundTrip(t *testing.T) {
	conn := openJournal(t)
	r := Repo{DB: conn}
	ctx := context.Background()

	rec := domain.NewRecord()
	rec[domain.FieldProcessName] = "Løn"
	g := generation("g1", "Løn", "2025-03-14T09:26:00Z")
	insert(t, conn, g, rec)

	got, err := r.GetGeneration(ctx, "g1")
	require.NoError(t, err)
	if diff := cmp.Diff(g, got); diff != "" {
		t.Fatalf("generation mismatch (-want +got):\n%s", diff)
	}

	gotRec, err := r.GetRecord(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, rec, gotRec)

	a, err := r.FindArtifact(ctx, "g1_PDD_RTS.docx")
	require.NoError(t, err)
	assert.Equal(t, domain.ArtifactProcessDoc, a.Kind)

	_, err = r.GetGeneration(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.GetRecord(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.FindArtifact(ctx, "missing.docx")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListGenerationsNewestFirst(t *testing.T) {
	conn := openJournal(t)
	insert(t, conn, generation("a", "A", "2025-03-14T09:00:00Z"), domain.NewRecord())
	insert(t, conn, generation("b", "B", "2025-03-14T10:00:00Z"), domain.NewRecord())

	list, err := Repo{DB: conn}.ListGenerations(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
	assert.Len(t, list[0].Artifacts, 2)

	one, err := Repo{DB: conn}.ListGenerations(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestListEvents(t *testing.T) {
	conn := openJournal(t)
	ctx := context.Background()
	w := events.Writer{DB: conn, Now: func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }}
	require.NoError(t, w.Record(ctx, events.TypeImportJSON, "", events.EventPayload{"status": "matched"}))
	require.NoError(t, w.Record(ctx, events.TypeCaseGenerated, "g1", nil))

	all, err := Repo{DB: conn}.ListEvents(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, events.TypeCaseGenerated, all[0].Type)
	assert.Equal(t, "{}", all[0].Payload)
	assert.Equal(t, `{"status":"matched"}`, all[1].Payload)
	assert.Equal(t, "2025-01-02T03:04:05Z", all[1].TS)

	scoped, err := Repo{DB: conn}.ListEvents(ctx, "g1", 10)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "g1", scoped[0].EntityID)
}
