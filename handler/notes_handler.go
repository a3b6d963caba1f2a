package handler

import (
	"errors"

	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the service error taxonomy onto HTTP.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		utils.NotFound(c, "Note not found")
	case errors.Is(err, usecase.ErrConflict):
		utils.Conflict(c, "Note was modified concurrently")
	case errors.Is(err, usecase.ErrValidation):
		utils.BadRequest(c, err.Error())
	default:
		utils.TrackError("http", "store_unavailable")
		utils.InternalError(c, "Server error")
	}
}

func GetUserNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("user_id")

	notes, err := notesService.ListActive(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, dto.ToNoteResponses(notes))
}

func GetTrashedNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("user_id")

	notes, err := notesService.ListTrash(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, dto.ToNoteResponses(notes))
}

func GetNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	note, err := notesService.GetNote(c.Request.Context(), userID, noteID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, dto.ToNoteResponse(note))
}

func CreateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	userID := c.GetString("user_id")
	note, err := notesService.CreateNote(c.Request.Context(), userID, req.Title, req.Content, req.Tags)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Created(c, dto.ToNoteResponse(note))
}

func UpdateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	patch := usecase.NotePatch{
		Title:       req.Title,
		Content:     req.Content,
		Tags:        req.Tags,
		IsArchived:  req.IsArchived,
		BaseVersion: req.BaseVersion,
	}

	note, err := notesService.UpdateNote(c.Request.Context(), userID, noteID, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, dto.ToNoteResponse(note))
}

func TogglePinHandler(c *gin.Context, notesService *usecase.NotesService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	note, err := notesService.TogglePin(c.Request.Context(), userID, noteID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, dto.ToNoteResponse(note))
}

func TrashNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	note, err := notesService.Trash(c.Request.Context(), userID, noteID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"message": "Note moved to Trash",
		"note":    dto.ToNoteResponse(note),
	})
}

func RestoreNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	note, err := notesService.Restore(c.Request.Context(), userID, noteID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"message": "Note restored",
		"note":    dto.ToNoteResponse(note),
	})
}

func PermanentDeleteHandler(c *gin.Context, notesService *usecase.NotesService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	if err := notesService.PermanentDelete(c.Request.Context(), userID, noteID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "Note permanently deleted"})
}
