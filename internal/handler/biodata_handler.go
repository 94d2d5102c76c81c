package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"amarbiye.com/campusmatrimony/internal/dto"
	"amarbiye.com/campusmatrimony/internal/service"
	"amarbiye.com/campusmatrimony/pkg/response"
	"amarbiye.com/campusmatrimony/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type BiodataHandler struct {
	profileService service.ProfileService
	draftService   service.DraftService
}

func NewBiodataHandler(profileService service.ProfileService, draftService service.DraftService) *BiodataHandler {
	return &BiodataHandler{profileService: profileService, draftService: draftService}
}

// Submit handles both the first submission and later edits. The payload is
// JSON, or a multipart form with a "data" JSON field plus an optional "photo"
// file.
func (h *BiodataHandler) Submit(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.BiodataInput
	var photo *service.PhotoFile

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		raw := c.PostForm("data")
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing data field"})
			return
		}
		if err := json.Unmarshal([]byte(raw), &input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid biodata payload"})
			return
		}
		if err := binding.Validator.ValidateStruct(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
			return
		}

		if fileHeader, err := c.FormFile("photo"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "could not read photo"})
				return
			}
			defer file.Close()
			photo = &service.PhotoFile{Reader: file, FileName: fileHeader.Filename}
		}
	} else {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
			return
		}
	}

	profile, err := h.profileService.SubmitOrEdit(c.Request.Context(), userID, input, photo)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

func (h *BiodataHandler) GetOwn(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	profile, err := h.profileService.GetOwn(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

func (h *BiodataHandler) DeleteOwn(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.profileService.DeleteOwn(c.Request.Context(), userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "biodata deleted"})
}

func (h *BiodataHandler) SaveDraft(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.SaveDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	draft, err := h.draftService.Save(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": draft})
}

func (h *BiodataHandler) GetDraft(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	draft, err := h.draftService.Get(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": draft})
}

func (h *BiodataHandler) DiscardDraft(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.draftService.Discard(c.Request.Context(), userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "draft discarded"})
}
