package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/database"
	"github.com/groundcrew/crewbot/crewbot/database/models"
)

// Postgres keeps the document in a single crew_state row.
type Postgres struct {
	db  *database.DB
	key string
}

func NewPostgres(ctx context.Context, cfg database.DBConfig) (*Postgres, error) {
	db, err := database.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.InitializeSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &Postgres{db: db, key: DocumentKey}, nil
}

func (p *Postgres) Name() string {
	return "postgres"
}

func (p *Postgres) Read(ctx context.Context) ([]byte, error) {
	row := new(models.CrewState)
	err := p.db.BunDB().NewSelect().
		Model(row).
		Where("id = ?", p.key).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, crew.ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select state: %w", err)
	}
	return []byte(row.Document), nil
}

func (p *Postgres) Write(ctx context.Context, data []byte) error {
	row := &models.CrewState{
		ID:        p.key,
		Document:  string(data),
		Version:   crew.SchemaVersion,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := p.db.BunDB().NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("document = EXCLUDED.document").
		Set("version = EXCLUDED.version").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert state: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.db.Close()
	return nil
}
