package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bwalczak/noteboard/internal/model"
)

// NoteStore persists notes in the notes table. Queries return rows in
// storage order; callers own any presentation ordering.
type NoteStore struct {
	db *sql.DB
}

func NewNoteStore(db *sql.DB) *NoteStore {
	return &NoteStore{db: db}
}

const noteCols = `id, title, description, level, created_at`

func scanNote(scanner interface{ Scan(...any) error }) (*model.Note, error) {
	var n model.Note
	var level sql.NullString
	var createdAt time.Time

	err := scanner.Scan(&n.ID, &n.Title, &n.Description, &level, &createdAt)
	if err != nil {
		return nil, err
	}

	if level.Valid {
		l, err := model.ParseLevel(level.String)
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", n.ID, err)
		}
		n.Level = &l
	}
	n.CreatedAt = model.At(createdAt)
	return &n, nil
}

func levelParam(l *model.Level) sql.NullString {
	if l == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: l.String(), Valid: true}
}

// Create inserts the note and returns it with its assigned id.
func (s *NoteStore) Create(n model.Note) (*model.Note, error) {
	result, err := s.db.Exec(
		`INSERT INTO notes (title, description, level, created_at) VALUES (?, ?, ?, ?)`,
		n.Title, n.Description, levelParam(n.Level), n.CreatedAt.Time,
	)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// GetByID returns the note, or nil if no row has that id.
func (s *NoteStore) GetByID(id int64) (*model.Note, error) {
	row := s.db.QueryRow(`SELECT `+noteCols+` FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

// List returns every stored note.
func (s *NoteStore) List() ([]model.Note, error) {
	rows, err := s.db.Query(`SELECT ` + noteCols + ` FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()
	return collectNotes(rows)
}

// ListByLevel returns every note whose level equals the given value.
// Notes without a level never match.
func (s *NoteStore) ListByLevel(level model.Level) ([]model.Note, error) {
	rows, err := s.db.Query(`SELECT `+noteCols+` FROM notes WHERE level = ?`, level.String())
	if err != nil {
		return nil, fmt.Errorf("list notes by level: %w", err)
	}
	defer rows.Close()
	return collectNotes(rows)
}

func collectNotes(rows *sql.Rows) ([]model.Note, error) {
	var notes []model.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

// Update overwrites title, description, and level of the row with n's id,
// leaving created_at untouched. It returns the number of rows affected;
// zero means the note vanished between the caller's lookup and now.
func (s *NoteStore) Update(n *model.Note) (int64, error) {
	result, err := s.db.Exec(
		`UPDATE notes SET title = ?, description = ?, level = ? WHERE id = ?`,
		n.Title, n.Description, levelParam(n.Level), n.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("update note: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// Delete removes the row and reports how many rows went away, so
// concurrent deletes of the same id resolve with a single winner.
func (s *NoteStore) Delete(id int64) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete note: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// Count returns the total number of stored notes.
func (s *NoteStore) Count() (int64, error) {
	var count int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return count, nil
}
