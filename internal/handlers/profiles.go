package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"thermostat/internal/models"
	"thermostat/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	// slider replies are plain text for the control panel
	sliderOK   = "OK"
	sliderFail = "FAIL"

	errLoadProfiles = "failed to load profiles"
	errTargetTemp   = "failed to compute target temperature"
)

var errNonFiniteTemp = errors.New("temperature must be a finite number")

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// SliderRequest moves one control point. All fields arrive as text so the
// hour label can be matched exactly.
type SliderRequest struct {
	// Profile to edit. Allowed: weekdays, weekends
	Profile string `json:"profile" form:"profile" binding:"required" example:"weekdays"`
	// Hour label of an existing control point
	Hour string `json:"hour" form:"hour" binding:"required" example:"6"`
	// New temperature in Celsius
	Temp string `json:"temp" form:"temp" binding:"required" example:"21.5"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get profiles
// @Description  Both day schedules as lists of [hour, temp] pairs.
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  models.ProfileSet
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/profiles [get]
func (h *Handler) getProfiles(c *gin.Context) {
	set, err := h.services.Profiles.Serialize(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadProfiles, "profiles_serialize_failed", err)
		return
	}
	c.JSON(http.StatusOK, set)
}

// @Summary      Move a control point
// @Description  Sets the temperature of the point whose hour label matches exactly. Never inserts points.
// @Tags         profiles
// @Accept       json,x-www-form-urlencoded
// @Produce      plain
// @Param        body  body  SliderRequest  true  "Slider payload"
// @Success      200   {string}  string  "OK or FAIL"
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/profiles/slider [post]
// @Security     BearerAuth
func (h *Handler) setSlider(c *gin.Context) {
	var req SliderRequest
	if err := c.ShouldBind(&req); err != nil {
		h.log.Infow("slider_bad_request", "err", err)
		c.String(http.StatusOK, sliderFail)
		return
	}

	temp, err := strconv.ParseFloat(strings.TrimSpace(req.Temp), 64)
	if err == nil && !models.IsFinite(temp) {
		err = errNonFiniteTemp
	}
	if err != nil {
		h.log.Infow("slider_bad_temp", "temp", req.Temp, "err", err)
		c.String(http.StatusOK, sliderFail)
		return
	}

	dt := models.DayType(strings.ToLower(strings.TrimSpace(req.Profile)))
	res, err := h.services.Profiles.SetSlider(c.Request.Context(), dt, req.Hour, temp)
	if err != nil {
		if !errors.Is(err, service.ErrUnknownDayType) {
			h.log.Errorw("slider_update_failed", "err", err, "profile", dt, "hour", req.Hour)
		}
		c.String(http.StatusOK, sliderFail)
		return
	}
	if res == service.SliderNotFound {
		h.log.Infow("slider_point_not_found", "profile", dt, "hour", req.Hour)
		c.String(http.StatusOK, sliderFail)
		return
	}
	c.String(http.StatusOK, sliderOK)
}

// @Summary      Target temperature now
// @Tags         temperature
// @Produce      plain
// @Success      200  {string}  string  "e.g. 20.5"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/temperature/target [get]
func (h *Handler) getTargetTemp(c *gin.Context) {
	temp, err := h.services.Profiles.TempNow(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errTargetTemp, "target_temp_failed", err)
		return
	}
	c.String(http.StatusOK, strconv.FormatFloat(temp, 'f', -1, 64))
}
