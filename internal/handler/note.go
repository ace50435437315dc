package handler

import (
	"log/slog"
	"net/http"

	"allmanager/internal/domain/services"
	"allmanager/internal/httputil"
)

// NoteHandler handles internal note requests (admin only)
type NoteHandler struct {
	noteService services.NoteService
	logger      *slog.Logger
}

func NewNoteHandler(noteService services.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{noteService: noteService, logger: logger}
}

type createNoteBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updateNoteBody struct {
	Title   httputil.OptionalString `json:"title"`
	Content httputil.OptionalString `json:"content"`
}

func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.noteService.ListNotes(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var body createNoteBody
	if !readJSON(w, r, h.logger, &body) {
		return
	}

	note, err := h.noteService.CreateNote(r.Context(), &services.CreateNoteRequest{
		Title:     body.Title,
		Content:   body.Content,
		CreatedBy: principal(r).UserID,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	note, err := h.noteService.GetNote(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	var body updateNoteBody
	if !readJSON(w, r, h.logger, &body) {
		return
	}

	note, err := h.noteService.UpdateNote(r.Context(), id, &services.UpdateNoteRequest{
		Title:   body.Title.Domain(),
		Content: body.Content.Domain(),
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := readID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.noteService.DeleteNote(r.Context(), id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondNoContent(w)
}
