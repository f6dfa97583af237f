// Package service holds the note business logic: existence checks,
// creation timestamping, result ordering, and envelope shaping.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/bwalczak/noteboard/internal/model"
	"github.com/bwalczak/noteboard/internal/response"
	"github.com/bwalczak/noteboard/internal/store"
)

// ErrNotFound is returned when an operation references an id with no
// stored note. Its text is part of the API contract.
var ErrNotFound = errors.New("The note was not found on the server!")

type NoteService struct {
	store  *store.NoteStore
	logger *slog.Logger
	now    func() time.Time
}

func NewNoteService(st *store.NoteStore, logger *slog.Logger) *NoteService {
	return &NoteService{store: st, logger: logger, now: time.Now}
}

// WithClock replaces the time source. Each operation reads the clock
// fresh, so envelope timestamps and createdAt values are never stale.
func (s *NoteService) WithClock(now func() time.Time) *NoteService {
	s.now = now
	return s
}

// GetAllNotes returns every note, most recently created first.
func (s *NoteService) GetAllNotes() (response.Envelope, error) {
	s.logger.Info("fetching all notes")

	notes, err := s.store.List()
	if err != nil {
		return response.Envelope{}, err
	}
	count, err := s.store.Count()
	if err != nil {
		return response.Envelope{}, err
	}

	message := "No notes to display!"
	if count > 0 {
		message = fmt.Sprintf("%d notes retrieved", count)
	}
	return response.Success(http.StatusOK, message, s.now(), byCreatedAtDesc(notes)), nil
}

// GetNotesByLevel returns the notes matching the given level, most
// recently created first.
func (s *NoteService) GetNotesByLevel(level model.Level) (response.Envelope, error) {
	s.logger.Info("fetching notes by level", "level", level.String())

	notes, err := s.store.ListByLevel(level)
	if err != nil {
		return response.Envelope{}, err
	}
	message := fmt.Sprintf("%d of the %s level", len(notes), level)
	return response.Success(http.StatusOK, message, s.now(), byCreatedAtDesc(notes)), nil
}

// CreateNote persists a new note. The caller has already validated title
// and description; any client-supplied id or createdAt has been dropped
// upstream — the creation time is this server's clock, read now.
func (s *NoteService) CreateNote(title, description string, level *model.Level) (response.Envelope, error) {
	s.logger.Info("saving new note")

	now := s.now()
	saved, err := s.store.Create(model.Note{
		Title:       title,
		Description: description,
		Level:       level,
		CreatedAt:   model.At(now),
	})
	if err != nil {
		return response.Envelope{}, err
	}
	return response.Success(http.StatusCreated, "Note has been created successfully!", now, []model.Note{*saved}), nil
}

// UpdateNote overwrites title, description, and level of an existing
// note. Its id and createdAt never change.
func (s *NoteService) UpdateNote(id int64, title, description string, level *model.Level) (response.Envelope, error) {
	s.logger.Info("updating note", "id", id)

	existing, err := s.store.GetByID(id)
	if err != nil {
		return response.Envelope{}, err
	}
	if existing == nil {
		return response.Envelope{}, ErrNotFound
	}

	existing.Title = title
	existing.Description = description
	existing.Level = level

	affected, err := s.store.Update(existing)
	if err != nil {
		return response.Envelope{}, err
	}
	if affected == 0 {
		// Lost a race with a concurrent delete.
		return response.Envelope{}, ErrNotFound
	}
	return response.Success(http.StatusOK, "Note has been updated successfully!", s.now(), []model.Note{*existing}), nil
}

// DeleteNote removes the note and returns its last known value.
func (s *NoteService) DeleteNote(id int64) (response.Envelope, error) {
	s.logger.Info("deleting note", "id", id)

	existing, err := s.store.GetByID(id)
	if err != nil {
		return response.Envelope{}, err
	}
	if existing == nil {
		return response.Envelope{}, ErrNotFound
	}

	affected, err := s.store.Delete(id)
	if err != nil {
		return response.Envelope{}, err
	}
	if affected == 0 {
		return response.Envelope{}, ErrNotFound
	}
	return response.Success(http.StatusOK, "Note has been deleted!", s.now(), []model.Note{*existing}), nil
}

// UnroutedRequest builds the 404 envelope for a method+path with no route.
func (s *NoteService) UnroutedRequest(method string) response.Envelope {
	reason := fmt.Sprintf("There is no mapping for a %s request for this path on the server!", method)
	return response.Failure(http.StatusNotFound, reason, s.now())
}

// byCreatedAtDesc orders most recent first. It never returns nil: list
// endpoints serialize an empty data array rather than omitting the field.
func byCreatedAtDesc(notes []model.Note) []model.Note {
	if notes == nil {
		return []model.Note{}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt.Time)
	})
	return notes
}
