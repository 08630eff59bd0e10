package handlers

import (
	"net/http"

	"barakah/models"
	"barakah/services/narration"
	"barakah/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NarrationHandler runs narration engines in-process.
type NarrationHandler struct {
	Engines narration.Registry
}

func NewNarrationHandler(engines narration.Registry) *NarrationHandler {
	return &NarrationHandler{Engines: engines}
}

// NarrateHandler defaults to the metadata engine, which needs no backend.
func (h *NarrationHandler) NarrateHandler(c *gin.Context) {
	var req models.NarrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	name := req.Engine
	if name == "" {
		name = narration.MetadataEngineName
	}
	engine, ok := h.Engines.Get(name)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "Unknown narration engine", name)
		return
	}

	result, err := engine.Synthesize(c.Request.Context(), req)
	if err != nil {
		status := http.StatusBadGateway
		switch narration.ErrorType(err) {
		case narration.ErrTypeInvalidInput:
			status = http.StatusBadRequest
		case narration.ErrTypeUnavailable:
			status = http.StatusServiceUnavailable
		}
		getLogger(c).Warn("narration failed", zap.String("engine", engine.Name()), zap.Error(err))
		c.JSON(status, narration.Failure(engine.Name(), err))
		return
	}
	c.JSON(http.StatusOK, result)
}
