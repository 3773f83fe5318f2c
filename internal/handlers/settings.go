package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"regexp"

	"github.com/dropdeck-dev/dropdeck/db"
	"github.com/dropdeck-dev/dropdeck/internal/models"
	"github.com/dropdeck-dev/dropdeck/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRequest struct {
	Columns        map[string]interface{} `json:"columns"`
	AutoActivateAt string                 `json:"auto_activate_at"`
	DiscordWebhook string                 `json:"discord_webhook"`
}

type SettingsResponse struct {
	Columns        map[string]interface{} `json:"columns"`
	AutoActivateAt string                 `json:"auto_activate_at"`
	DiscordWebhook string                 `json:"discord_webhook"`
}

var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func GetSettings(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var settings models.UserSettings

	if err := db.DB.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No row yet; serve defaults rather than a 404.
			ctx.JSON(http.StatusOK, SettingsResponse{Columns: map[string]interface{}{}})
			return
		}
		log.Printf("Failed to fetch settings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve settings"})
		return
	}

	columns := map[string]interface{}(settings.Columns)
	if columns == nil {
		columns = map[string]interface{}{}
	}

	ctx.JSON(http.StatusOK, SettingsResponse{
		Columns:        columns,
		AutoActivateAt: settings.AutoActivateAt,
		DiscordWebhook: settings.DiscordWebhook,
	})
}

// SaveSettings replaces the user's settings row wholesale.
func SaveSettings(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req SettingsRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.AutoActivateAt != "" && !timeOfDayPattern.MatchString(req.AutoActivateAt) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "auto_activate_at must be HH:MM"})
		return
	}

	if req.DiscordWebhook != "" {
		parsed, err := url.Parse(req.DiscordWebhook)
		if err != nil || parsed.Scheme != "https" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "discord_webhook must be an https URL"})
			return
		}
	}

	if req.Columns == nil {
		req.Columns = map[string]interface{}{}
	}

	settings := models.UserSettings{
		UserID:         userID,
		Columns:        datatypes.JSONMap(req.Columns),
		AutoActivateAt: req.AutoActivateAt,
		DiscordWebhook: req.DiscordWebhook,
	}

	err = db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"columns", "auto_activate_at", "discord_webhook", "updated_at"}),
	}).Create(&settings).Error

	if err != nil {
		log.Printf("Failed to save settings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	ctx.JSON(http.StatusOK, SettingsResponse{
		Columns:        req.Columns,
		AutoActivateAt: req.AutoActivateAt,
		DiscordWebhook: req.DiscordWebhook,
	})
}
