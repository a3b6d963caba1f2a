package handler

import (
	"errors"
	"net/http"

	"main/dto"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func ShareNoteHandler(c *gin.Context, shareService *usecase.ShareService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	note, publicURL, err := shareService.Share(c.Request.Context(), userID, noteID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, dto.ShareResponse{
		PublicID:  note.PublicID,
		PublicURL: publicURL,
	})
}

func UnshareNoteHandler(c *gin.Context, shareService *usecase.ShareService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	if err := shareService.Unshare(c.Request.Context(), userID, noteID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "Note unshared"})
}

// ResolvePublicHandler serves the unauthenticated read-only view.
func ResolvePublicHandler(c *gin.Context, shareService *usecase.ShareService) {
	publicID := c.Param("publicId")

	note, err := shareService.ResolvePublic(c.Request.Context(), publicID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			utils.NotFound(c, "Shared note not found")
			return
		}
		utils.InternalError(c, "Server error")
		return
	}

	utils.Success(c, dto.ToPublicNoteResponse(note))
}

// ExportNoteHandler renders the note as a standalone HTML document.
// Rendering failures are surfaced and never retried; the note itself
// is untouched.
func ExportNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	note, err := notesService.GetNote(c.Request.Context(), userID, noteID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	doc, err := services.RenderDocument(note.Title, note.Content)
	if err != nil {
		var renderErr *services.RenderError
		if errors.As(err, &renderErr) {
			utils.TrackError("render", "export_failed")
			utils.InternalError(c, "Failed to render note")
			return
		}
		utils.InternalError(c, "Server error")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc))
}
