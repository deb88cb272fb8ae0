package notesclient

import (
	"context"
	"errors"
	"strings"
)

// PageSize is how many notes a page shows.
const PageSize = 5

// Notification texts shown to the user.
const (
	MsgNotesLoaded     = "Notes loaded successfully!"
	MsgErrFetching     = "Error fetching notes"
	MsgFieldsRequired  = "Title and content are required"
	MsgNoteAdded       = "Note added successfully!"
	MsgErrAdding       = "Error adding note"
	MsgNoteUpdated     = "Note updated successfully!"
	MsgErrUpdating     = "Error updating note"
	MsgNoteDeleted     = "Note deleted successfully!"
	MsgErrDeleting     = "Error deleting note"
	MsgConfirmDeletion = "Are you sure you want to delete this note?"
)

var (
	ErrEmptyForm       = errors.New(MsgFieldsRequired)
	ErrNotEditing      = errors.New("no note is being edited")
	ErrDeleteCancelled = errors.New("delete cancelled")
)

type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

// Notifier shows a transient message.
type Notifier interface {
	Notify(level Level, msg string)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(question string) bool
}

type notesAPI interface {
	List(ctx context.Context) ([]Note, error)
	Create(ctx context.Context, input NoteInput) (*Note, error)
	Update(ctx context.Context, id string, input NoteInput) (*Note, error)
	Delete(ctx context.Context, id string) (*Note, error)
}

// Form is the note draft being written or edited. ID is empty for a new note.
type Form struct {
	ID      string
	Title   string
	Content string
}

func (f Form) blank() bool {
	return strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.Content) == ""
}

// Session holds the client side state of the notes UI.
// Not safe for concurrent use.
type Session struct {
	api       notesAPI
	notifier  Notifier
	confirmer Confirmer

	notes   []Note
	form    Form
	editing bool
	search  string
	page    int
	banner  string
}

func NewSession(api notesAPI, notifier Notifier, confirmer Confirmer) *Session {
	return &Session{
		api:       api,
		notifier:  notifier,
		confirmer: confirmer,
		notes:     []Note{},
		page:      1,
	}
}

// Load replaces the collection with a fresh fetch. On failure the previous
// collection stays and the error banner is set.
func (s *Session) Load(ctx context.Context) error {
	s.banner = ""
	notes, err := s.api.List(ctx)
	if err != nil {
		s.banner = err.Error()
		s.notify(LevelError, MsgErrFetching)
		return err
	}

	s.notes = notes
	s.clampPage()
	s.notify(LevelSuccess, MsgNotesLoaded)
	return nil
}

func (s *Session) Notes() []Note {
	return append([]Note(nil), s.notes...)
}

func (s *Session) Form() Form {
	return s.form
}

func (s *Session) SetForm(title, content string) {
	s.form.Title = title
	s.form.Content = content
}

func (s *Session) Editing() bool {
	return s.editing
}

// BeginEdit copies the note into the form and switches to edit mode.
func (s *Session) BeginEdit(note Note) {
	s.form = Form{ID: note.ID, Title: note.Title, Content: note.Content}
	s.editing = true
}

func (s *Session) CancelEdit() {
	s.resetForm()
}

// Submit creates a note from the form, or updates the edited one.
// A blank title or content never reaches the network.
func (s *Session) Submit(ctx context.Context) (*Note, error) {
	if s.form.blank() {
		s.notify(LevelError, MsgFieldsRequired)
		return nil, ErrEmptyForm
	}

	input := NoteInput{Title: s.form.Title, Content: s.form.Content}
	if !s.editing {
		note, err := s.api.Create(ctx, input)
		if err != nil {
			s.notify(LevelError, MsgErrAdding)
			return nil, err
		}
		s.notes = append(s.notes, *note)
		s.resetForm()
		s.notify(LevelSuccess, MsgNoteAdded)
		return note, nil
	}

	if s.form.ID == "" {
		return nil, ErrNotEditing
	}
	note, err := s.api.Update(ctx, s.form.ID, input)
	if err != nil {
		s.notify(LevelError, MsgErrUpdating)
		return nil, err
	}
	for i := range s.notes {
		if s.notes[i].ID == note.ID {
			s.notes[i] = *note
		}
	}
	s.resetForm()
	s.notify(LevelSuccess, MsgNoteUpdated)
	return note, nil
}

// Delete removes the note after the user confirms.
func (s *Session) Delete(ctx context.Context, id string) error {
	if s.confirmer == nil || !s.confirmer.Confirm(MsgConfirmDeletion) {
		return ErrDeleteCancelled
	}

	if _, err := s.api.Delete(ctx, id); err != nil {
		s.notify(LevelError, MsgErrDeleting)
		return err
	}

	kept := s.notes[:0]
	for _, n := range s.notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.notes = kept
	s.clampPage()
	s.notify(LevelSuccess, MsgNoteDeleted)
	return nil
}

func (s *Session) SetSearch(term string) {
	s.search = term
	s.page = 1
}

func (s *Session) Search() string {
	return s.search
}

// Filtered returns notes whose title or content contains the search term, case-insensitive.
func (s *Session) Filtered() []Note {
	term := strings.ToLower(s.search)
	filtered := make([]Note, 0, len(s.notes))
	for _, n := range s.notes {
		if term == "" ||
			strings.Contains(strings.ToLower(n.Title), term) ||
			strings.Contains(strings.ToLower(n.Content), term) {
			filtered = append(filtered, n)
		}
	}
	return filtered
}

// PageCount is at least 1, an empty collection still has an (empty) first page.
func (s *Session) PageCount() int {
	n := len(s.Filtered())
	if n == 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

func (s *Session) SetPage(page int) {
	s.page = page
	s.clampPage()
}

func (s *Session) CurrentPage() int {
	return s.page
}

// Page returns the notes of the current page of the filtered collection.
func (s *Session) Page() []Note {
	filtered := s.Filtered()
	start := (s.page - 1) * PageSize
	if start >= len(filtered) {
		return []Note{}
	}
	end := min(start+PageSize, len(filtered))
	return filtered[start:end]
}

// ErrorBanner is the last Load failure, empty when none.
func (s *Session) ErrorBanner() string {
	return s.banner
}

func (s *Session) DismissError() {
	s.banner = ""
}

func (s *Session) resetForm() {
	s.form = Form{}
	s.editing = false
}

func (s *Session) clampPage() {
	if s.page < 1 {
		s.page = 1
	}
	if pages := s.PageCount(); s.page > pages {
		s.page = pages
	}
}

func (s *Session) notify(level Level, msg string) {
	if s.notifier != nil {
		s.notifier.Notify(level, msg)
	}
}
