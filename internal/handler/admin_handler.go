package handler

import (
	"context"
	"net/http"
	"strconv"

	"amarbiye.com/campusmatrimony/internal/dto"
	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/internal/service"
	"amarbiye.com/campusmatrimony/pkg/response"
	"amarbiye.com/campusmatrimony/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler is the moderation console surface: user management, the
// profile review queue, purchase verification, reports, and platform settings.
type AdminHandler struct {
	adminService      service.AdminService
	moderationService service.ModerationService
	txnService        service.TransactionService
	reportService     service.ReportService
	settingsService   service.SettingsService
}

func NewAdminHandler(
	adminService service.AdminService,
	moderationService service.ModerationService,
	txnService service.TransactionService,
	reportService service.ReportService,
	settingsService service.SettingsService,
) *AdminHandler {
	return &AdminHandler{
		adminService:      adminService,
		moderationService: moderationService,
		txnService:        txnService,
		reportService:     reportService,
		settingsService:   settingsService,
	}
}

// Users

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var filter dto.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	users, meta, err := h.adminService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": users, "meta": meta})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.adminService.GetUser(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (h *AdminHandler) VerifyAlumni(c *gin.Context) {
	h.updateUser(c, h.adminService.VerifyAlumni)
}

func (h *AdminHandler) BanUser(c *gin.Context) {
	h.updateUser(c, h.adminService.BanUser)
}

func (h *AdminHandler) UnbanUser(c *gin.Context) {
	h.updateUser(c, h.adminService.UnbanUser)
}

func (h *AdminHandler) RestrictUser(c *gin.Context) {
	h.updateUser(c, h.adminService.RestrictUser)
}

func (h *AdminHandler) UnrestrictUser(c *gin.Context) {
	h.updateUser(c, h.adminService.UnrestrictUser)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

// Profile review queue

func (h *AdminHandler) ListPendingProfiles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	profiles, meta, err := h.moderationService.ListPending(c.Request.Context(), page, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profiles, "meta": meta})
}

func (h *AdminHandler) ApproveProfile(c *gin.Context) {
	profile, err := h.moderationService.Approve(c.Request.Context(), c.Param("profileID"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

func (h *AdminHandler) RejectProfile(c *gin.Context) {
	var input dto.RejectProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	profile, err := h.moderationService.Reject(c.Request.Context(), c.Param("profileID"), input.Reason)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// Purchases

func (h *AdminHandler) ListPendingPurchases(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	txns, meta, err := h.txnService.ListPendingPurchases(c.Request.Context(), page, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": txns, "meta": meta})
}

func (h *AdminHandler) ApprovePurchase(c *gin.Context) {
	adminID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	txnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	txn, err := h.txnService.ApprovePurchase(c.Request.Context(), txnID, adminID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": txn})
}

func (h *AdminHandler) RejectPurchase(c *gin.Context) {
	adminID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	txnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	txn, err := h.txnService.RejectPurchase(c.Request.Context(), txnID, adminID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": txn})
}

func (h *AdminHandler) AdjustCredits(c *gin.Context) {
	adminID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var input dto.AdjustCreditsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	txn, err := h.txnService.AdjustCredits(c.Request.Context(), userID, adminID, input.Credits, input.Note)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": txn})
}

// Reports

func (h *AdminHandler) ListReports(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	reports, meta, err := h.reportService.ListOpen(c.Request.Context(), page, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reports, "meta": meta})
}

func (h *AdminHandler) ResolveReport(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	if err := h.reportService.Resolve(c.Request.Context(), uint(id)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "report resolved"})
}

// Settings

func (h *AdminHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, dto.SettingsResponse{
		MonetizationEnabled: h.settingsService.MonetizationEnabled(c.Request.Context()),
		UnlockCost:          h.settingsService.UnlockCost(),
	})
}

func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var input dto.UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.settingsService.SetMonetization(c.Request.Context(), *input.MonetizationEnabled); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SettingsResponse{
		MonetizationEnabled: *input.MonetizationEnabled,
		UnlockCost:          h.settingsService.UnlockCost(),
	})
}

func (h *AdminHandler) updateUser(c *gin.Context, fn func(ctx context.Context, userID uuid.UUID) (*model.User, error)) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := fn(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

func parseUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return uuid.Nil, false
	}
	return userID, true
}
