package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/isdelr/geonotes-be/internal/database"
	"github.com/isdelr/geonotes-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNoteService(t *testing.T) *NoteService {
	t.Helper()
	return NewNoteService(openStore(t, database.NotesSchema), nil)
}

func TestCreateThenList(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	before := time.Now()
	_, err := svc.CreateNote(ctx, "1", "hello", models.Coordinates{})
	require.NoError(t, err)

	notes, err := svc.ListNotes(ctx, 1)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "hello", notes[0].Text)
	assert.Equal(t, int64(1), notes[0].UserID)
	assert.WithinDuration(t, before, notes[0].Date, 5*time.Second)
	assert.Nil(t, notes[0].Longitude)
	assert.Nil(t, notes[0].Latitude)
}

func TestCreateNote_Validation(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	_, err := svc.CreateNote(ctx, "1", "", models.Coordinates{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateNote(ctx, "1", "   ", models.Coordinates{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateNote(ctx, "abc", "text", models.Coordinates{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateNote(ctx, "", "text", models.Coordinates{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateNote_CoordinatesStoredVerbatim(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	created, err := svc.CreateNote(ctx, "7", "at the pier", models.Coordinates{
		Longitude: strPtr("-122.4194"),
		Latitude:  strPtr("not-a-number"),
	})
	require.NoError(t, err)

	got, err := svc.GetNote(ctx, 7, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "at the pier", got.Text)
	require.NotNil(t, got.Longitude)
	require.NotNil(t, got.Latitude)
	assert.Equal(t, "-122.4194", *got.Longitude)
	assert.Equal(t, "not-a-number", *got.Latitude)
	assert.True(t, created.Date.Equal(got.Date))
}

func TestEditNote(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	created, err := svc.CreateNote(ctx, "3", "draft", models.Coordinates{Longitude: strPtr("1.0"), Latitude: strPtr("2.0")})
	require.NoError(t, err)
	original, err := svc.GetNote(ctx, 3, created.ID)
	require.NoError(t, err)

	require.NoError(t, svc.EditNote(ctx, created.ID, "final", models.Coordinates{Longitude: strPtr("3.5")}))

	edited, err := svc.GetNote(ctx, 3, created.ID)
	require.NoError(t, err)
	assert.Equal(t, original.ID, edited.ID)
	assert.True(t, original.Date.Equal(edited.Date), "date must not change on edit")
	assert.Equal(t, "final", edited.Text)
	require.NotNil(t, edited.Longitude)
	assert.Equal(t, "3.5", *edited.Longitude)
	assert.Nil(t, edited.Latitude)
}

func TestEditNote_Errors(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	err := svc.EditNote(ctx, 999, "text", models.Coordinates{})
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := svc.CreateNote(ctx, "1", "keep", models.Coordinates{})
	require.NoError(t, err)
	err = svc.EditNote(ctx, created.ID, "", models.Coordinates{})
	assert.ErrorIs(t, err, ErrValidation)

	got, err := svc.GetNote(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Text)
}

func TestDeleteNote(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	first, err := svc.CreateNote(ctx, "5", "one", models.Coordinates{})
	require.NoError(t, err)
	_, err = svc.CreateNote(ctx, "5", "two", models.Coordinates{})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteNote(ctx, first.ID))

	notes, err := svc.ListNotes(ctx, 5)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "two", notes[0].Text)

	err = svc.DeleteNote(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNotes_EmptyAndScopedToUser(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	notes, err := svc.ListNotes(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)

	for _, text := range []string{"a", "b", "c"} {
		_, err := svc.CreateNote(ctx, "1", text, models.Coordinates{})
		require.NoError(t, err)
	}
	_, err = svc.CreateNote(ctx, "2", "other user", models.Coordinates{})
	require.NoError(t, err)

	notes, err = svc.ListNotes(ctx, 1)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "a", notes[0].Text)
	assert.Equal(t, "b", notes[1].Text)
	assert.Equal(t, "c", notes[2].Text)
}

func TestGetNote_RequiresOwner(t *testing.T) {
	svc := newNoteService(t)
	ctx := context.Background()

	created, err := svc.CreateNote(ctx, "1", "mine", models.Coordinates{})
	require.NoError(t, err)

	_, err = svc.GetNote(ctx, 2, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetNote(ctx, 1, created.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNoteService_StorageErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewNoteService(db, nil)
	ctx := context.Background()
	diskErr := errors.New("disk I/O error")

	mock.ExpectExec("INSERT INTO notes").WillReturnError(diskErr)
	_, err = svc.CreateNote(ctx, "1", "text", models.Coordinates{})
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, diskErr)

	mock.ExpectExec("UPDATE notes").WillReturnError(diskErr)
	err = svc.EditNote(ctx, 1, "text", models.Coordinates{})
	assert.ErrorIs(t, err, ErrStorage)

	mock.ExpectExec("DELETE FROM notes").WillReturnError(diskErr)
	err = svc.DeleteNote(ctx, 1)
	assert.ErrorIs(t, err, ErrStorage)
	assert.NotErrorIs(t, err, ErrNotFound)

	mock.ExpectQuery("SELECT (.+) FROM notes").WillReturnError(diskErr)
	_, err = svc.ListNotes(ctx, 1)
	assert.ErrorIs(t, err, ErrStorage)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteService_RecordsEvents(t *testing.T) {
	events := NewEventService(openStore(t, database.EventsSchema))
	svc := NewNoteService(openStore(t, database.NotesSchema), events)
	ctx := context.Background()

	created, err := svc.CreateNote(ctx, "9", "logged", models.Coordinates{})
	require.NoError(t, err)
	require.NoError(t, svc.EditNote(ctx, created.ID, "logged again", models.Coordinates{}))
	require.NoError(t, svc.DeleteNote(ctx, created.ID))

	recent, err := events.GetRecentEvents(ctx, 10)
	require.NoError(t, err)
	var types []string
	for _, e := range recent {
		types = append(types, e.Type)
	}
	assert.ElementsMatch(t, []string{EventNoteCreate, EventNoteEdit, EventNoteDelete}, types)
}

func TestNotesFromFirstSchemaHaveNullCoordinates(t *testing.T) {
	ctx := context.Background()
	db, err := database.New(database.MemoryDSN)
	require.NoError(t, err)
	defer db.Close()

	// Schema version 1 has no coordinate columns.
	require.NoError(t, database.MigrateToContext(ctx, db, database.NotesSchema, 1))
	res, err := db.Exec("INSERT INTO notes(user_id, text, date) VALUES(?, ?, ?)", 11, "before coordinates", time.Now().UTC())
	require.NoError(t, err)
	legacyID, err := res.LastInsertId()
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db, database.NotesSchema))

	svc := NewNoteService(db, nil)
	note, err := svc.GetNote(ctx, 11, legacyID)
	require.NoError(t, err)
	assert.Equal(t, "before coordinates", note.Text)
	assert.Nil(t, note.Longitude)
	assert.Nil(t, note.Latitude)

	notes, err := svc.ListNotes(ctx, 11)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Nil(t, notes[0].Longitude)
}
