package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ironvale/mud/internal/game/player"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned when creating a character with a name that
// already exists.
var ErrCharacterNameTaken = errors.New("character name already taken")

// CharacterRecord is the database row for a player character. Equipment and
// inventory are stored as JSONB: equipment maps slot to blueprint ID,
// inventory is a list of blueprint/quantity stacks.
type CharacterRecord struct {
	ID        int64
	AccountID int64
	Name      string
	ClassID   string
	RaceID    string
	Level     int
	XP        int
	CurrentHP int
	Location  string
	Equipment map[string]string
	Inventory []player.Stack
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCharacterRecord builds a record from a participant snapshot.
//
// Precondition: accountID must be > 0.
func NewCharacterRecord(accountID int64, snap player.Snapshot) *CharacterRecord {
	return &CharacterRecord{
		AccountID: accountID,
		Name:      snap.Name,
		ClassID:   snap.ClassID,
		RaceID:    snap.RaceID,
		Level:     snap.Level,
		XP:        snap.XP,
		CurrentHP: snap.CurrentHP,
		Location:  snap.RoomID,
		Equipment: snap.Equipment,
		Inventory: snap.Inventory,
	}
}

// Snapshot converts the record back into a participant snapshot.
func (rec *CharacterRecord) Snapshot() player.Snapshot {
	return player.Snapshot{
		Name:      rec.Name,
		ClassID:   rec.ClassID,
		RaceID:    rec.RaceID,
		Level:     rec.Level,
		XP:        rec.XP,
		CurrentHP: rec.CurrentHP,
		RoomID:    rec.Location,
		Equipment: rec.Equipment,
		Inventory: rec.Inventory,
	}
}

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const characterColumns = `id, account_id, name, class_id, race_id, level, xp,
	current_hp, location, equipment, inventory, created_at, updated_at`

// Create inserts a new character and returns it with ID and timestamps set.
//
// Precondition: rec.AccountID must reference an existing account; rec.Name
// must be non-empty.
// Postcondition: Returns the created record, or ErrCharacterNameTaken on
// duplicate.
func (r *CharacterRepository) Create(ctx context.Context, rec *CharacterRecord) (*CharacterRecord, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO characters
			(account_id, name, class_id, race_id, level, xp, current_hp,
			 location, equipment, inventory)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING `+characterColumns,
		rec.AccountID, rec.Name, rec.ClassID, rec.RaceID,
		rec.Level, rec.XP, rec.CurrentHP, rec.Location,
		rec.Equipment, rec.Inventory,
	)
	out, err := scanCharacter(row)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return out, nil
}

// ListByAccount returns all characters for the given account ID, ordered by
// creation time.
//
// Precondition: accountID must be > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) ListByAccount(ctx context.Context, accountID int64) ([]*CharacterRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+characterColumns+`
		FROM characters WHERE account_id = $1 ORDER BY created_at ASC`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	records := make([]*CharacterRecord, 0)
	for rows.Next() {
		rec, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetByID retrieves a character by its primary key.
//
// Precondition: id must be > 0.
// Postcondition: Returns the record or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (*CharacterRecord, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+characterColumns+`
		FROM characters WHERE id = $1`,
		id,
	)
	rec, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return rec, nil
}

// SaveSnapshot persists a participant snapshot over an existing character row.
// Name, class, and race are fixed at creation and not updated.
//
// Precondition: id must be > 0.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row
// updated.
func (r *CharacterRepository) SaveSnapshot(ctx context.Context, id int64, snap player.Snapshot) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters
		SET level = $2, xp = $3, current_hp = $4, location = $5,
		    equipment = $6, inventory = $7, updated_at = NOW()
		WHERE id = $1`,
		id, snap.Level, snap.XP, snap.CurrentHP, snap.RoomID,
		snap.Equipment, snap.Inventory,
	)
	if err != nil {
		return fmt.Errorf("saving character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row rowScanner) (*CharacterRecord, error) {
	var rec CharacterRecord
	err := row.Scan(
		&rec.ID, &rec.AccountID, &rec.Name, &rec.ClassID, &rec.RaceID,
		&rec.Level, &rec.XP, &rec.CurrentHP, &rec.Location,
		&rec.Equipment, &rec.Inventory, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if rec.Equipment == nil {
		rec.Equipment = make(map[string]string)
	}
	return &rec, nil
}
