package handlers

import (
	"errors"
	"net/http"

	"thermostat/internal/service"

	"github.com/gin-gonic/gin"
)

type actualRequest struct {
	Temp string `json:"temp" form:"temp" binding:"required"`
}

// @Summary      Last reported room temperature
// @Tags         temperature
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "temp, enttype"
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/temperature/actual [get]
func (h *Handler) getActualTemp(c *gin.Context) {
	v, found, err := h.services.Monitoring.ActualTemp(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load reading", "actual_temp_get_failed", err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no reading reported yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"temp": v, "enttype": v.Type})
}

// @Summary      Report room temperature
// @Description  Numeric readings are stored as float; other text as string.
// @Tags         temperature
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        temp  formData  string  true  "Sensor reading"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/temperature/actual [post]
func (h *Handler) reportActualTemp(c *gin.Context) {
	var req actualRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.Monitoring.ReportActual(c.Request.Context(), req.Temp); err != nil {
		if errors.Is(err, service.ErrTypeCoercion) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to store reading", "actual_temp_report_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
