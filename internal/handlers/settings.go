package handlers

import (
	"errors"
	"net/http"
	"strings"

	"thermostat/internal/models"
	"thermostat/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusRefreshed = "refreshed"
	statusDeleted   = "deleted"
	statusUpdated   = "updated"

	errInvalidBodyPref = "invalid body: "
	errLoadSettings    = "failed to load settings"
	errSettingNotFound = "setting not found"
)

// SettingRequest modifies one setting from typed text, the way an admin form submits it.
type SettingRequest struct {
	// Allowed: int, float, string, boolean, json
	EntType string `json:"enttype" form:"enttype" binding:"required" example:"float"`
	Value   string `json:"value" form:"value" example:"21.5"`
}

// @Summary      List stored settings
// @Description  Raw records in id order. Records without a type are repaired to string.
// @Tags         settings
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, settings"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/settings [get]
// @Security     BearerAuth
func (h *Handler) listSettings(c *gin.Context) {
	recs, err := h.services.Settings.Records(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadSettings, "settings_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(recs),
		"settings": recs,
	})
}

// @Summary      Get one setting
// @Tags         settings
// @Produce      json
// @Param        key  path  string  true  "Setting key"
// @Success      200  {object}  map[string]interface{}  "key, enttype, value"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/settings/{key} [get]
// @Security     BearerAuth
func (h *Handler) getSetting(c *gin.Context) {
	key := c.Param("key")
	v, found, err := h.services.Settings.Get(c.Request.Context(), key)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadSettings, "setting_get_failed", err, "key", key)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": errSettingNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "enttype": v.Type, "value": v})
}

// @Summary      Create or modify a setting
// @Description  The value text is parsed per enttype. An existing record keeps its own type and the value is coerced to it.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        key   path  string          true  "Setting key"
// @Param        body  body  SettingRequest  true  "Typed value"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/settings/{key} [put]
// @Security     BearerAuth
func (h *Handler) putSetting(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	var req SettingRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	typ, err := models.ParseEntType(req.EntType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := models.ParseValue(typ, req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Settings.Set(c.Request.Context(), key, v); err != nil {
		if errors.Is(err, service.ErrTypeCoercion) || errors.Is(err, service.ErrEmptyKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to store setting", "setting_set_failed", err, "key", key)
		return
	}
	h.log.Infow("setting_updated", "key", key, "enttype", typ, "user_id", c.GetInt(ctxUserID))
	c.JSON(http.StatusOK, gin.H{"status": statusUpdated, "key": key})
}

// @Summary      Delete a setting
// @Description  Removes every record stored under the key.
// @Tags         settings
// @Produce      json
// @Param        key  path  string  true  "Setting key"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/settings/{key} [delete]
// @Security     BearerAuth
func (h *Handler) deleteSetting(c *gin.Context) {
	key := c.Param("key")
	ok, err := h.services.Settings.Delete(c.Request.Context(), key)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to delete setting", "setting_delete_failed", err, "key", key)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errSettingNotFound})
		return
	}
	h.log.Infow("setting_deleted", "key", key, "user_id", c.GetInt(ctxUserID))
	c.JSON(http.StatusOK, gin.H{"status": statusDeleted, "key": key})
}

// @Summary      Reload settings from the store
// @Tags         settings
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/settings/refresh [post]
// @Security     BearerAuth
func (h *Handler) refreshSettings(c *gin.Context) {
	if err := h.services.Settings.ForceRefresh(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadSettings, "settings_refresh_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusRefreshed})
}
