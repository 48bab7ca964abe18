package utils

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	ml "github.com/gridsight/gridsight/pipelines/ML"
)

// TrainingStore persists labeled training samples and serialized
// classifier models in SQLite.
type TrainingStore struct {
	db   *sql.DB
	path string
}

// NewTrainingStore opens or creates the training database at dbPath.
func NewTrainingStore(dbPath string) (*TrainingStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	ts := &TrainingStore{db: db, path: dbPath}
	if err := ts.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return ts, nil
}

func (ts *TrainingStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS training_samples (
		id TEXT PRIMARY KEY,
		features TEXT NOT NULL,
		label TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_samples_label ON training_samples(label);

	CREATE TABLE IF NOT EXISTS models (
		name TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	`
	_, err := ts.db.Exec(schema)
	return err
}

// AddSample stores one labeled feature vector.
func (ts *TrainingStore) AddSample(ctx context.Context, sample ml.Sample) error {
	features, err := json.Marshal(sample.Features)
	if err != nil {
		return fmt.Errorf("failed to serialize features: %w", err)
	}
	_, err = ts.db.ExecContext(ctx,
		`INSERT INTO training_samples (id, features, label, created_at) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), string(features), sample.Label, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}
	return nil
}

// Samples loads every stored sample in insertion order.
func (ts *TrainingStore) Samples(ctx context.Context) ([]ml.Sample, error) {
	rows, err := ts.db.QueryContext(ctx,
		`SELECT features, label FROM training_samples ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []ml.Sample
	for rows.Next() {
		var featuresJSON, label string
		if err := rows.Scan(&featuresJSON, &label); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		var features []float64
		if err := json.Unmarshal([]byte(featuresJSON), &features); err != nil {
			return nil, fmt.Errorf("failed to decode features: %w", err)
		}
		samples = append(samples, ml.Sample{Features: features, Label: label})
	}
	return samples, rows.Err()
}

// CountSamples returns the number of stored samples.
func (ts *TrainingStore) CountSamples(ctx context.Context) (int, error) {
	var count int
	err := ts.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM training_samples`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count samples: %w", err)
	}
	return count, nil
}

// SaveModel persists a trained classifier under a name, replacing any
// previous model with that name.
func (ts *TrainingStore) SaveModel(ctx context.Context, name string, dt *ml.DecisionTreeClassifier) error {
	data, err := dt.Bytes()
	if err != nil {
		return fmt.Errorf("failed to serialize model: %w", err)
	}
	_, err = ts.db.ExecContext(ctx,
		`INSERT INTO models (name, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		name, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}
	return nil
}

// LoadModel restores a classifier previously stored with SaveModel.
func (ts *TrainingStore) LoadModel(ctx context.Context, name string) (*ml.DecisionTreeClassifier, error) {
	var data []byte
	err := ts.db.QueryRowContext(ctx, `SELECT data FROM models WHERE name = ?`, name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("model %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	return ml.FromBytes(data)
}

// Close releases the database handle.
func (ts *TrainingStore) Close() error {
	return ts.db.Close()
}
