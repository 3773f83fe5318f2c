package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/dropdeck-dev/dropdeck/db"
	"github.com/dropdeck-dev/dropdeck/internal/models"
	"github.com/dropdeck-dev/dropdeck/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminStatsResponse struct {
	Users         int64      `json:"users"`
	Airdrops      int64      `json:"airdrops"`
	PublicEntries int64      `json:"public_entries"`
	LastReset     *time.Time `json:"last_reset"`
}

func AdminStats(ctx *gin.Context) {
	var stats AdminStatsResponse

	if err := db.DB.Model(&models.User{}).Count(&stats.Users).Error; err != nil {
		log.Printf("Failed to count users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stats"})
		return
	}

	if err := db.DB.Model(&models.Airdrop{}).Count(&stats.Airdrops).Error; err != nil {
		log.Printf("Failed to count airdrops: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stats"})
		return
	}

	if err := db.DB.Model(&models.Airdrop{}).Where("public = ?", true).Count(&stats.PublicEntries).Error; err != nil {
		log.Printf("Failed to count public airdrops: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stats"})
		return
	}

	var run models.JobRun

	err := db.DB.Where("name = ?", "daily_reset").First(&run).Error

	if err == nil {
		stats.LastReset = &run.LastRun
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to fetch last reset run: %v", err)
	}

	ctx.JSON(http.StatusOK, stats)
}

// AdminListAirdrops is the bulk export, hard-capped.
func AdminListAirdrops(ctx *gin.Context) {
	var airdrops []models.Airdrop

	err := db.DB.Preload("Owner").
		Order("last_activity DESC").
		Limit(types.ListingCap).
		Find(&airdrops).Error

	if err != nil {
		log.Printf("Failed to list airdrops for admin: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve airdrops"})
		return
	}

	response := make([]AirdropResponse, 0, len(airdrops))

	for _, airdrop := range airdrops {
		entry := toAirdropResponse(airdrop)
		entry.Owner = airdrop.Owner.Username
		response = append(response, entry)
	}

	ctx.JSON(http.StatusOK, response)
}
