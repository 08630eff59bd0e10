package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"barakah/middleware"
	"barakah/models"
	"barakah/services/document"
	"barakah/services/dua"
	"barakah/services/tasks"
	"barakah/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PDFLocator resolves dua ids to rendered files.
type PDFLocator interface {
	Path(id string) (string, error)
	Exists(id string) bool
}

// ArchiveResolver looks up archived copies of PDFs.
type ArchiveResolver interface {
	URL(ctx context.Context, id string) (string, error)
}

// DuaHandler serves dua generation and PDF download.
type DuaHandler struct {
	Service    dua.Service
	Dispatcher tasks.Dispatcher
	PDFs       PDFLocator
	Archive    ArchiveResolver // optional
	now        func() time.Time
}

func NewDuaHandler(svc dua.Service, dispatcher tasks.Dispatcher, pdfs PDFLocator, archive ArchiveResolver) *DuaHandler {
	return &DuaHandler{Service: svc, Dispatcher: dispatcher, PDFs: pdfs, Archive: archive, now: time.Now}
}

// GenerateDuaHandler returns the dua immediately and queues its PDF.
func (h *DuaHandler) GenerateDuaHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.DuaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if grant := middleware.GrantFromContext(c); grant != nil && grant.APIAccess {
		req.PremiumFeatures = true
	}

	result, err := h.Service.Generate(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	id := uuid.NewString()
	resp := models.DuaResponse{
		ID:         id,
		DuaContent: *result.Content,
		CreatedAt:  h.now().UTC(),
		PDFURL:     "/api/dua/" + id + "/pdf",
		Cached:     result.Cached,
	}

	if err := h.Dispatcher.Dispatch(c.Request.Context(), models.PDFJob{ID: id, Content: *result.Content}); err != nil {
		logger.Error("failed to dispatch pdf job", zap.String("id", id), zap.Error(err))
	}

	logger.Info("dua generated", zap.String("id", id), zap.String("source", string(result.Content.Source)),
		zap.Bool("cached", result.Cached), zap.Bool("premium", req.PremiumFeatures))
	c.JSON(http.StatusOK, resp)
}

// GetDuaPDFHandler streams a rendered PDF, or redirects to its archived copy.
func (h *DuaHandler) GetDuaPDFHandler(c *gin.Context) {
	id := c.Param("id")
	path, err := h.PDFs.Path(id)
	if err != nil {
		if errors.Is(err, document.ErrInvalidID) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid dua id", "")
			return
		}
		utils.HandleServiceError(c, err)
		return
	}

	if h.PDFs.Exists(id) {
		c.Header("Content-Type", "application/pdf")
		c.FileAttachment(path, "BarakahTool_Dua_"+id+".pdf")
		return
	}

	if h.Archive != nil {
		url, err := h.Archive.URL(c.Request.Context(), id)
		if err != nil {
			getLogger(c).Warn("pdf archive lookup failed", zap.String("id", id), zap.Error(err))
		} else if url != "" {
			c.Redirect(http.StatusFound, url)
			return
		}
	}

	utils.JSONError(c, http.StatusNotFound, "PDF not found or still generating", "")
}
