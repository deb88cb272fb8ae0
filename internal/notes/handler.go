package notes

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/2beens/diarynotes/internal/logging"
	"github.com/2beens/diarynotes/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=notes_test

type noteService interface {
	List(ctx context.Context) ([]*Note, error)
	Get(ctx context.Context, id string) (*Note, error)
	Create(ctx context.Context, input NoteInput) (*Note, error)
	Update(ctx context.Context, id string, input NoteInput) (*Note, error)
	Delete(ctx context.Context, id string) (*Note, error)
}

type Handler struct {
	service noteService
}

func NewHandler(service noteService) *Handler {
	return &Handler{
		service: service,
	}
}

// SetupRoutes registers the notes routes. The given middlewares wrap only the mutating ones.
func (h *Handler) SetupRoutes(router *mux.Router, mutationMiddlewares ...mux.MiddlewareFunc) {
	router.HandleFunc("/notes", h.HandleList).Methods("GET", "OPTIONS").Name("list-notes")
	router.HandleFunc("/notes/{id}", h.HandleGet).Methods("GET", "OPTIONS").Name("get-note")

	mutations := router.NewRoute().Subrouter()
	mutations.HandleFunc("/notes", h.HandleCreate).Methods("POST", "OPTIONS").Name("new-note")
	mutations.HandleFunc("/notes/{id}", h.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-note")
	mutations.HandleFunc("/notes/{id}", h.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-note")
	mutations.Use(mutationMiddlewares...)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err, MsgErrFetchingNotes)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, NewNoteResponses(notes))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err, MsgErrFetchingNote)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, NewNoteResponse(note))
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	input, err := DecodeNoteInput(r.Body)
	if err != nil {
		h.writeError(w, r, err, MsgErrCreatingNote)
		return
	}

	note, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err, MsgErrCreatingNote)
		return
	}

	logging.FromContext(r.Context()).Debugf("new note added: %s", note.ID)
	pkg.WriteJSON(w, http.StatusCreated, NewNoteResponse(note))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	input, err := DecodeNoteInput(r.Body)
	if err != nil {
		h.writeError(w, r, err, MsgErrUpdatingNote)
		return
	}

	note, err := h.service.Update(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		h.writeError(w, r, err, MsgErrUpdatingNote)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, NewNoteResponse(note))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err, MsgErrDeletingNote)
		return
	}

	logging.FromContext(r.Context()).Debugf("note %s removed", note.ID)
	pkg.WriteJSON(w, http.StatusOK, NewNoteResponse(note))
}

// writeError maps service errors onto the API error taxonomy.
// Storage failures are answered with the per-operation message, details stay in the logs.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, storageMsg string) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		pkg.WriteJSON(w, http.StatusBadRequest, vErr)
	case errors.Is(err, ErrNoteNotFound):
		pkg.WriteMessage(w, http.StatusNotFound, MsgNoteNotFound)
	default:
		logging.FromContext(r.Context()).Errorf("%s: %s", storageMsg, err)
		pkg.WriteMessage(w, http.StatusInternalServerError, storageMsg)
	}
}
