package notes

import "time"

// Note is a single diary entry as kept by the storage backends.
// ID is opaque to callers: an ObjectID hex string for mongo, a decimal for postgres.
type Note struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteInput is the client-controlled part of a note, used by both create and update.
type NoteInput struct {
	Title   string `json:"title" validate:"notblank"`
	Content string `json:"content" validate:"notblank"`
}

// NoteResponse is the wire representation of a note.
// The id is emitted twice so clients reading either `id` or `_id` keep working.
type NoteResponse struct {
	ID        string    `json:"id"`
	LegacyID  string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewNoteResponse(note *Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		LegacyID:  note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt.UTC(),
		UpdatedAt: note.UpdatedAt.UTC(),
	}
}

// NewNoteResponses never returns nil, so an empty collection is encoded as [].
func NewNoteResponses(notes []*Note) []NoteResponse {
	resp := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		resp = append(resp, NewNoteResponse(n))
	}
	return resp
}
