package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dropdeck-dev/dropdeck/db"
	"github.com/dropdeck-dev/dropdeck/internal/models"
	"github.com/dropdeck-dev/dropdeck/internal/types"
	"github.com/dropdeck-dev/dropdeck/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AirdropRequest carries both the canonical field names and the legacy
// spellings older clients still send (project/image/is_active/status/
// join_date). The legacy names are resolved once here; nothing past request
// binding ever sees them.
type AirdropRequest struct {
	Name    string `json:"name"`
	Project string `json:"project"`
	Logo    string `json:"logo"`
	Image   string `json:"image"`
	Link    string `json:"link"`
	Social  string `json:"social"`
	Chain   string `json:"chain"`
	Stage   string `json:"stage"`
	Type    string `json:"type"`

	Tags  *models.Tags `json:"tags"`
	Notes *string      `json:"notes"`

	Active   *bool  `json:"active"`
	IsActive *bool  `json:"is_active"`
	Status   string `json:"status"`

	Public *bool `json:"is_public"`

	JoinDate      string `json:"join_date"`
	JoinDateCamel string `json:"joinDate"`
}

func (r *AirdropRequest) name() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Project
}

func (r *AirdropRequest) logo() string {
	if r.Logo != "" {
		return r.Logo
	}
	return r.Image
}

// active resolves the three historical spellings of the status field,
// most-specific first. Returns nil when the request doesn't touch it.
func (r *AirdropRequest) active() *bool {
	if r.Active != nil {
		return r.Active
	}
	if r.IsActive != nil {
		return r.IsActive
	}
	switch strings.ToLower(strings.TrimSpace(r.Status)) {
	case "active":
		v := true
		return &v
	case "inactive":
		v := false
		return &v
	}
	return nil
}

func (r *AirdropRequest) joinDate() (time.Time, bool) {
	raw := r.JoinDate
	if raw == "" {
		raw = r.JoinDateCamel
	}
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type AirdropResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Logo          string     `json:"logo"`
	Link          string     `json:"link"`
	Social        string     `json:"social"`
	Chain         string     `json:"chain"`
	Stage         string     `json:"stage"`
	Type          string     `json:"type"`
	Tags          []string   `json:"tags"`
	Notes         string     `json:"notes"`
	JoinedAt      time.Time  `json:"joined_at"`
	LastActivity  time.Time  `json:"last_activity"`
	Active        bool       `json:"active"`
	Public        bool       `json:"is_public"`
	LinkOK        bool       `json:"link_ok"`
	LinkCheckedAt *time.Time `json:"link_checked_at"`
	Owner         string     `json:"owner,omitempty"`
}

func toAirdropResponse(a models.Airdrop) AirdropResponse {
	tags := a.Tags
	if tags == nil {
		tags = models.Tags{}
	}

	return AirdropResponse{
		ID:            a.ID,
		Name:          a.Name,
		Logo:          a.Logo,
		Link:          a.Link,
		Social:        a.Social,
		Chain:         a.Chain,
		Stage:         a.Stage,
		Type:          a.Type,
		Tags:          tags,
		Notes:         a.Notes,
		JoinedAt:      a.JoinedAt,
		LastActivity:  a.LastActivity,
		Active:        a.Active,
		Public:        a.Public,
		LinkOK:        a.LinkOK,
		LinkCheckedAt: a.LinkCheckedAt,
	}
}

func CreateAirdrop(ctx *gin.Context) {
	var req AirdropRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	name := req.name()

	if name == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Project name is required"})
		return
	}

	if req.Stage != "" && !types.ValidStage(req.Stage) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stage"})
		return
	}

	if req.Type != "" && !types.ValidType(req.Type) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type"})
		return
	}

	now := time.Now()
	joinedAt := now
	if t, ok := req.joinDate(); ok {
		joinedAt = t
	}

	airdrop := models.Airdrop{
		OwnerID:      userID,
		Name:         name,
		Logo:         req.logo(),
		Link:         req.Link,
		Social:       req.Social,
		Chain:        req.Chain,
		Stage:        req.Stage,
		Type:         req.Type,
		JoinedAt:     joinedAt,
		LastActivity: now,
	}

	if req.Tags != nil {
		airdrop.Tags = *req.Tags
	}
	if req.Notes != nil {
		airdrop.Notes = *req.Notes
	}
	if active := req.active(); active != nil {
		airdrop.Active = *active
	}
	if req.Public != nil {
		airdrop.Public = *req.Public
	}

	if err := db.DB.Create(&airdrop).Error; err != nil {
		log.Printf("Failed to create airdrop: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create airdrop"})
		return
	}

	currentUser, _ := utils.GetCurrentUser(ctx)
	BroadcastRefresh(currentUser.Username)

	ctx.JSON(http.StatusCreated, toAirdropResponse(airdrop))
}

func ListAirdrops(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var airdrops []models.Airdrop

	if err := db.DB.Where("owner_id = ?", userID).Order("last_activity DESC").Find(&airdrops).Error; err != nil {
		log.Printf("Failed to list airdrops: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve airdrops"})
		return
	}

	utils.SortAirdrops(airdrops)
	airdrops = utils.FilterAirdrops(airdrops, ctx.Query("q"))

	response := make([]AirdropResponse, 0, len(airdrops))

	for _, airdrop := range airdrops {
		response = append(response, toAirdropResponse(airdrop))
	}

	ctx.JSON(http.StatusOK, response)
}

func UpdateAirdrop(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req AirdropRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	airdropID, err := utils.GetAirdropID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var airdrop models.Airdrop

	if err := db.DB.Where("id = ? AND owner_id = ?", airdropID, userID).First(&airdrop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Airdrop not found"})
		} else {
			log.Printf("Failed to fetch airdrop: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve airdrop"})
		}
		return
	}

	if name := req.name(); name != "" {
		airdrop.Name = name
	}
	if logo := req.logo(); logo != "" {
		airdrop.Logo = logo
	}
	if req.Link != "" {
		airdrop.Link = req.Link
	}
	if req.Social != "" {
		airdrop.Social = req.Social
	}
	if req.Chain != "" {
		airdrop.Chain = req.Chain
	}
	if req.Stage != "" {
		if !types.ValidStage(req.Stage) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stage"})
			return
		}
		airdrop.Stage = req.Stage
	}
	if req.Type != "" {
		if !types.ValidType(req.Type) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type"})
			return
		}
		airdrop.Type = req.Type
	}
	if req.Tags != nil {
		airdrop.Tags = *req.Tags
	}
	if req.Notes != nil {
		airdrop.Notes = *req.Notes
	}
	if active := req.active(); active != nil {
		airdrop.Active = *active
	}
	if req.Public != nil {
		airdrop.Public = *req.Public
	}
	if t, ok := req.joinDate(); ok {
		airdrop.JoinedAt = t
	}

	airdrop.LastActivity = time.Now()

	if err := db.DB.Save(&airdrop).Error; err != nil {
		log.Printf("Failed to update airdrop: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update airdrop"})
		return
	}

	currentUser, _ := utils.GetCurrentUser(ctx)
	BroadcastRefresh(currentUser.Username)

	ctx.JSON(http.StatusOK, toAirdropResponse(airdrop))
}

func ToggleAirdropStatus(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	airdropID, err := utils.GetAirdropID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var airdrop models.Airdrop

	if err := db.DB.Where("id = ? AND owner_id = ?", airdropID, userID).First(&airdrop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Airdrop not found"})
		} else {
			log.Printf("Failed to fetch airdrop: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve airdrop"})
		}
		return
	}

	airdrop.Active = !airdrop.Active
	airdrop.LastActivity = time.Now()

	if err := db.DB.Save(&airdrop).Error; err != nil {
		log.Printf("Failed to toggle airdrop status: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update airdrop"})
		return
	}

	currentUser, _ := utils.GetCurrentUser(ctx)
	BroadcastRefresh(currentUser.Username)

	ctx.JSON(http.StatusOK, toAirdropResponse(airdrop))
}

func DeleteAirdrop(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	airdropID, err := utils.GetAirdropID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var airdrop models.Airdrop

	if err := db.DB.Where("id = ? AND owner_id = ?", airdropID, userID).First(&airdrop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Airdrop not found"})
		} else {
			log.Printf("Failed to fetch airdrop: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve airdrop"})
		}
		return
	}

	if err := db.DB.Delete(&airdrop).Error; err != nil {
		log.Printf("Failed to delete airdrop: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete airdrop"})
		return
	}

	currentUser, _ := utils.GetCurrentUser(ctx)
	BroadcastRefresh(currentUser.Username)

	ctx.Status(http.StatusNoContent)
}
