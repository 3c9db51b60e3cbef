// Package repo queries the session journal.
package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"businesscase/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

// DefaultListLimit caps list queries when the caller passes no limit.
const DefaultListLimit = 50

// InsertGenerationTx stores a generation, its record and its artifacts.
func (r Repo) InsertGenerationTx(ctx context.Context, tx *sql.Tx, g domain.Generation, rec domain.Record) error {
	metrics, err := json.Marshal(g.Metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	values, err := json.Marshal(rec.Values())
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO generations(id,process_name,created_at,metrics_json,record_json) VALUES (?,?,?,?,?)`,
		g.ID, g.ProcessName, g.CreatedAt, string(metrics), string(values)); err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	for _, a := range g.Artifacts {
		if _, err := tx.ExecContext(ctx, `INSERT INTO artifacts(generation_id,kind,name,path,size) VALUES (?,?,?,?,?)`,
			g.ID, string(a.Kind), a.Name, a.Path, a.Size); err != nil {
			return fmt.Errorf("insert artifact %s: %w", a.Name, err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGeneration(s scanner) (domain.Generation, error) {
	var g domain.Generation
	var metrics string
	if err := s.Scan(&g.ID, &g.ProcessName, &g.CreatedAt, &metrics); err != nil {
		return g, err
	}
	if err := json.Unmarshal([]byte(metrics), &g.Metrics); err != nil {
		return g, fmt.Errorf("decode metrics of %s: %w", g.ID, err)
	}
	return g, nil
}

// GetGeneration returns one generation with its artifacts.
func (r Repo) GetGeneration(ctx context.Context, id string) (domain.Generation, error) {
	g, err := scanGeneration(r.DB.QueryRowContext(ctx,
		`SELECT id,process_name,created_at,metrics_json FROM generations WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Generation{}, ErrNotFound
	}
	if err != nil {
		return domain.Generation{}, err
	}
	arts, err := r.listArtifacts(ctx, id)
	if err != nil {
		return domain.Generation{}, err
	}
	g.Artifacts = arts
	return g, nil
}

// GetRecord returns the record a generation was rendered from.
func (r Repo) GetRecord(ctx context.Context, id string) (domain.Record, error) {
	var raw string
	err := r.DB.QueryRowContext(ctx, `SELECT record_json FROM generations WHERE id=?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var values map[string]string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode record of %s: %w", id, err)
	}
	return domain.RecordFromValues(values), nil
}

// ListGenerations returns generations newest first.
func (r Repo) ListGenerations(ctx context.Context, limit int) ([]domain.Generation, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id,process_name,created_at,metrics_json FROM generations ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	var res []domain.Generation
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		res = append(res, g)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// the single connection must be free before the artifact queries
	rows.Close()
	for i := range res {
		arts, err := r.listArtifacts(ctx, res[i].ID)
		if err != nil {
			return nil, err
		}
		res[i].Artifacts = arts
	}
	return res, nil
}

func (r Repo) listArtifacts(ctx context.Context, generationID string) ([]domain.Artifact, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT kind,name,path,size FROM artifacts WHERE generation_id=? ORDER BY rowid`, generationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Artifact
	for rows.Next() {
		var a domain.Artifact
		var kind string
		if err := rows.Scan(&kind, &a.Name, &a.Path, &a.Size); err != nil {
			return nil, err
		}
		a.Kind = domain.ArtifactKind(kind)
		res = append(res, a)
	}
	return res, rows.Err()
}

// FindArtifact looks up a generated file by its base name. A name reused
// within the same minute resolves to the latest generation.
func (r Repo) FindArtifact(ctx context.Context, name string) (domain.Artifact, error) {
	var a domain.Artifact
	var kind string
	err := r.DB.QueryRowContext(ctx, `SELECT kind,name,path,size FROM artifacts WHERE name=? ORDER BY rowid DESC LIMIT 1`, name).
		Scan(&kind, &a.Name, &a.Path, &a.Size)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	a.Kind = domain.ArtifactKind(kind)
	return a, err
}

// ListEvents returns journal events, newest first. An empty entityID lists
// all events.
func (r Repo) ListEvents(ctx context.Context, entityID string, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query := `SELECT id,ts,type,COALESCE(entity_id,''),payload_json FROM events`
	var args []any
	if entityID != "" {
		query += ` WHERE entity_id=?`
		args = append(args, entityID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.EntityID, &e.Payload); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
