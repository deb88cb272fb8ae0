package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/diarynotes/internal/notes"
)

const keyPrefix = "diary:note:"

func noteKey(id string) string {
	return keyPrefix + id
}

type cachedNote struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func encodeNote(note *notes.Note) ([]byte, error) {
	b, err := json.Marshal(cachedNote{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("encode note %s: %w", note.ID, err)
	}
	return b, nil
}

func decodeNote(b []byte) (*notes.Note, error) {
	var cn cachedNote
	if err := json.Unmarshal(b, &cn); err != nil {
		return nil, fmt.Errorf("decode cached note: %w", err)
	}
	return &notes.Note{
		ID:        cn.ID,
		Title:     cn.Title,
		Content:   cn.Content,
		CreatedAt: cn.CreatedAt.UTC(),
		UpdatedAt: cn.UpdatedAt.UTC(),
	}, nil
}
