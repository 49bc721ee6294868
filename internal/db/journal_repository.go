package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/craftcore/internal/game/craft"
)

// JournalRecord is one stored craft with the items it consumed.
type JournalRecord struct {
	ID         uuid.UUID
	ActorID    int64
	RecipeID   string
	Result     string
	ResultMult int32
	CraftedAt  time.Time
	Items      []JournalItem
}

// JournalItem is one consumed item of a stored craft.
type JournalItem struct {
	Slot      string // e.g. "component#0"
	Source    string // "map" or "player"
	ObjectID  uint32
	ItemType  string
	Units     int32
	Charges   int32
	Contained bool
	Tool      bool
}

// JournalRepository stores provenance of finished crafts.
// Implements craft.Journal.
type JournalRepository struct {
	db  *pgxpool.Pool
	now func() time.Time
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(db *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{db: db, now: time.Now}
}

// Record implements craft.Journal.
func (r *JournalRepository) Record(ctx context.Context, entry craft.JournalEntry) error {
	_, err := r.Save(ctx, entry)
	return err
}

// Save stores a craft and its consumed items in one transaction and returns
// the generated journal ID.
func (r *JournalRepository) Save(ctx context.Context, entry craft.JournalEntry) (uuid.UUID, error) {
	id := uuid.New()
	craftedAt := entry.CraftedAt
	if craftedAt.IsZero() {
		craftedAt = r.now()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "actor", entry.ActorID, "error", err)
		}
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO craft_journal (id, actor_id, recipe_id, result, result_mult, crafted_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, entry.ActorID, entry.RecipeID, string(entry.Result), entry.ResultMult, craftedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting craft journal for actor %d: %w", entry.ActorID, err)
	}

	if len(entry.Consumed) > 0 {
		rows := make([][]any, 0, len(entry.Consumed))
		for i, ci := range entry.Consumed {
			rows = append(rows, []any{
				id,
				int32(i),
				ci.Slot.String(),
				ci.Source.String(),
				int64(ci.Item.ObjectID()),
				string(ci.Item.TypeID()),
				ci.Units,
				ci.Charges,
				ci.Contained,
				ci.Tool,
			})
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"craft_journal_items"},
			[]string{"journal_id", "position", "slot", "source", "object_id", "item_type", "units", "charges", "contained", "tool"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("inserting consumed items for journal %s: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Debug("saved craft journal",
		"id", id,
		"actor", entry.ActorID,
		"recipe", entry.RecipeID,
		"items", len(entry.Consumed))
	return id, nil
}

// LoadByActor returns the latest crafts of an actor, newest first.
func (r *JournalRepository) LoadByActor(ctx context.Context, actorID int64, limit int) ([]JournalRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0, got %d", limit)
	}
	rows, err := r.db.Query(ctx, `
		SELECT id::text, actor_id, recipe_id, result, result_mult, crafted_at
		FROM craft_journal
		WHERE actor_id = $1
		ORDER BY crafted_at DESC, id
		LIMIT $2`,
		actorID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying craft journal for actor %d: %w", actorID, err)
	}
	defer rows.Close()

	records := make([]JournalRecord, 0, limit)
	index := make(map[uuid.UUID]int, limit)
	ids := make([]uuid.UUID, 0, limit)
	for rows.Next() {
		var rec JournalRecord
		var rawID string
		if err := rows.Scan(&rawID, &rec.ActorID, &rec.RecipeID, &rec.Result, &rec.ResultMult, &rec.CraftedAt); err != nil {
			return nil, fmt.Errorf("scanning craft journal row: %w", err)
		}
		if rec.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("parsing journal id %q: %w", rawID, err)
		}
		index[rec.ID] = len(records)
		ids = append(ids, rec.ID)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating craft journal rows: %w", err)
	}
	if len(records) == 0 {
		return records, nil
	}

	if err := r.loadItems(ctx, ids, index, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *JournalRepository) loadItems(ctx context.Context, ids []uuid.UUID, index map[uuid.UUID]int, records []JournalRecord) error {
	rows, err := r.db.Query(ctx, `
		SELECT journal_id::text, slot, source, object_id, item_type, units, charges, contained, tool
		FROM craft_journal_items
		WHERE journal_id = ANY($1::uuid[])
		ORDER BY journal_id, position`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("querying consumed items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rawID string
		var item JournalItem
		var objectID int64
		if err := rows.Scan(&rawID, &item.Slot, &item.Source, &objectID, &item.ItemType,
			&item.Units, &item.Charges, &item.Contained, &item.Tool); err != nil {
			return fmt.Errorf("scanning consumed item row: %w", err)
		}
		item.ObjectID = uint32(objectID)
		journalID, err := uuid.Parse(rawID)
		if err != nil {
			return fmt.Errorf("parsing journal id %q: %w", rawID, err)
		}
		i, ok := index[journalID]
		if !ok {
			continue
		}
		records[i].Items = append(records[i].Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating consumed item rows: %w", err)
	}
	return nil
}
