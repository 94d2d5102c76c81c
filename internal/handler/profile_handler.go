package handler

import (
	"net/http"
	"time"

	"amarbiye.com/campusmatrimony/internal/dto"
	"amarbiye.com/campusmatrimony/internal/service"
	"amarbiye.com/campusmatrimony/pkg/apperror"
	"amarbiye.com/campusmatrimony/pkg/response"
	"amarbiye.com/campusmatrimony/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type ProfileHandler struct {
	searchService  service.SearchService
	contactService service.ContactService
	reportService  service.ReportService
	redisClient    *redis.Client
}

func NewProfileHandler(
	searchService service.SearchService,
	contactService service.ContactService,
	reportService service.ReportService,
	redisClient *redis.Client,
) *ProfileHandler {
	return &ProfileHandler{
		searchService:  searchService,
		contactService: contactService,
		reportService:  reportService,
		redisClient:    redisClient,
	}
}

func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	var filter dto.ProfileFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	result, err := h.searchService.ListProfiles(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProfile works for anonymous viewers too; the contact field is attached
// only when this viewer is already entitled to it.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	viewerID := response.OptionalUserID(c)

	detail, err := h.contactService.GetProfileDetail(c.Request.Context(), viewerID, c.Param("profileID"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": detail})
}

// UnlockContact runs the disclosure decision, charging a credit when the
// viewer has to pay. A short per-user cooldown absorbs double clicks.
func (h *ProfileHandler) UnlockContact(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	allowed, err := service.CheckAndSetRateLimit(c.Request.Context(), h.redisClient, userID, "contact_unlock", 2*time.Second)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	if !allowed {
		response.ResponseError(c, apperror.ErrRateLimitExceeded)
		return
	}

	viewerID := userID
	result, err := h.contactService.ResolveDisclosure(c.Request.Context(), &viewerID, c.Param("profileID"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *ProfileHandler) ReportProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.ReportProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.reportService.Report(c.Request.Context(), userID, c.Param("profileID"), input.Reason); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "report submitted"})
}
