package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IT22091352/wasana-products/internal/config"
	"github.com/IT22091352/wasana-products/internal/models"
	"github.com/IT22091352/wasana-products/internal/services"
	"github.com/IT22091352/wasana-products/internal/store"
)

// InquiryHandler handles inquiry submission and the admin inquiry endpoints.
type InquiryHandler struct {
	cfg            *config.Config
	inquiryService services.IInquiryService
}

// NewInquiryHandler creates a new InquiryHandler.
func NewInquiryHandler(cfg *config.Config, inquiryService services.IInquiryService) *InquiryHandler {
	return &InquiryHandler{cfg: cfg, inquiryService: inquiryService}
}

// Create handles POST /api/inquiries. The request body is bound to the
// submission shape only, so client-supplied price or status fields simply
// never reach the service.
func (h *InquiryHandler) Create(c *gin.Context) {
	var sub services.InquirySubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	inq, err := h.inquiryService.Submit(c.Request.Context(), sub)
	if err != nil {
		if verr, ok := asValidation(err); ok {
			respondValidation(c, verr)
			return
		}
		respondServerError(c, h.cfg, "Error submitting inquiry", err)
		return
	}

	respondCreated(c, "Inquiry submitted successfully", gin.H{
		"id":            inq.ID,
		"customer_name": inq.CustomerName,
		"product":       inq.ProductName,
		"total_amount":  inq.TotalAmount,
	})
}

// parseListQuery translates the admin listing query parameters into a store
// filter and paging options.
func parseListQuery(c *gin.Context) (store.InquiryFilter, store.ListOptions) {
	filter := store.InquiryFilter{
		Status: models.InquiryStatus(c.Query("status")),
		Search: c.Query("search"),
	}
	if v := c.Query("is_read"); v != "" {
		isRead := v == "true" || v == "1"
		filter.IsRead = &isRead
	}
	if v := c.Query("since"); v != "" {
		if since, err := time.Parse(time.RFC3339, v); err == nil {
			filter.CreatedSince = &since
		} else if since, err := time.Parse("2006-01-02", v); err == nil {
			filter.CreatedSince = &since
		}
	}

	opts := store.ListOptions{SortNewestFirst: true}
	if v, err := strconv.Atoi(c.Query("skip")); err == nil && v > 0 {
		opts.Skip = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		opts.Limit = v
	}
	return filter, opts
}

// List handles GET /api/inquiries.
func (h *InquiryHandler) List(c *gin.Context) {
	filter, opts := parseListQuery(c)

	items, total, err := h.inquiryService.List(c.Request.Context(), filter, opts)
	if err != nil {
		respondServerError(c, h.cfg, "Error listing inquiries", err)
		return
	}

	respondOK(c, "", gin.H{"inquiries": items, "total": total})
}

// Get handles GET /api/inquiries/:id.
func (h *InquiryHandler) Get(c *gin.Context) {
	inq, err := h.inquiryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Inquiry not found")
			return
		}
		respondServerError(c, h.cfg, "Error retrieving inquiry", err)
		return
	}
	respondOK(c, "", inq)
}

// Update handles PATCH /api/inquiries/:id.
func (h *InquiryHandler) Update(c *gin.Context) {
	var req struct {
		Status *models.InquiryStatus `json:"status"`
		Notes  *string               `json:"notes"`
		IsRead *bool                 `json:"is_read"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := store.InquiryPatch{Status: req.Status, Notes: req.Notes, IsRead: req.IsRead}
	inq, err := h.inquiryService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		if verr, ok := asValidation(err); ok {
			respondValidation(c, verr)
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Inquiry not found")
			return
		}
		respondServerError(c, h.cfg, "Error updating inquiry", err)
		return
	}

	respondOK(c, "Inquiry updated successfully", inq)
}

// Delete handles DELETE /api/inquiries/:id.
func (h *InquiryHandler) Delete(c *gin.Context) {
	removed, err := h.inquiryService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServerError(c, h.cfg, "Error deleting inquiry", err)
		return
	}
	if !removed {
		respondError(c, http.StatusNotFound, "Inquiry not found")
		return
	}
	respondOK(c, "Inquiry deleted successfully", nil)
}

// Stats handles GET /api/inquiries/stats/summary.
func (h *InquiryHandler) Stats(c *gin.Context) {
	stats, err := h.inquiryService.Stats(c.Request.Context())
	if err != nil {
		respondServerError(c, h.cfg, "Error computing statistics", err)
		return
	}
	respondOK(c, "", stats)
}

// MonthlyStats handles GET /api/inquiries/stats/monthly.
func (h *InquiryHandler) MonthlyStats(c *gin.Context) {
	var since *time.Time
	if v := c.Query("since"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			since = &parsed
		}
	}

	buckets, err := h.inquiryService.MonthlyStats(c.Request.Context(), since)
	if err != nil {
		respondServerError(c, h.cfg, "Error computing monthly statistics", err)
		return
	}
	respondOK(c, "", gin.H{"monthly": buckets})
}
