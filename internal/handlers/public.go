package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/dropdeck-dev/dropdeck/db"
	"github.com/dropdeck-dev/dropdeck/internal/cache"
	"github.com/dropdeck-dev/dropdeck/internal/models"
	"github.com/dropdeck-dev/dropdeck/internal/types"
	"github.com/dropdeck-dev/dropdeck/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListingCache backs the public listings. Each handler picks its own
// staleness window and falls back to a stale entry when the database read
// fails, so the public pages stay populated through transient outages.
var ListingCache *cache.Cache

// listingCache is the slice of the cache the listings use; satisfied by
// *cache.Cache, including a nil one when no Redis is configured.
type listingCache interface {
	Read(ctx context.Context, key string) (json.RawMessage, time.Duration, bool)
	Write(ctx context.Context, key string, value interface{}) error
}

const (
	poolCacheKey       = "listing:pool"
	profilesCacheKey   = "listing:profiles"
	profileCachePrefix = "listing:profile:"

	poolStaleness     = 5 * time.Minute
	profilesStaleness = 10 * time.Minute
	profileStaleness  = 2 * time.Minute
)

// ListPool returns every public project across all users, de-duplicated by
// link domain (first occurrence wins) and capped.
func ListPool(ctx *gin.Context) {
	serveListing(ctx, ListingCache, poolCacheKey, poolStaleness, func() (interface{}, error) {
		var airdrops []models.Airdrop

		err := db.DB.Preload("Owner").
			Where("public = ?", true).
			Order("last_activity DESC").
			Limit(types.ListingCap).
			Find(&airdrops).Error

		if err != nil {
			return nil, err
		}

		airdrops = utils.UniqueByDomain(airdrops)

		response := make([]AirdropResponse, 0, len(airdrops))
		for _, airdrop := range airdrops {
			entry := toAirdropResponse(airdrop)
			entry.Owner = airdrop.Owner.Username
			response = append(response, entry)
		}

		return response, nil
	})
}

// ListProfiles returns the usernames that have at least one public project.
func ListProfiles(ctx *gin.Context) {
	serveListing(ctx, ListingCache, profilesCacheKey, profilesStaleness, func() (interface{}, error) {
		var usernames []string

		err := db.DB.Model(&models.Airdrop{}).
			Distinct("users.username").
			Joins("JOIN users ON users.id = airdrops.owner_id").
			Where("airdrops.public = ?", true).
			Order("users.username").
			Pluck("users.username", &usernames).Error

		if err != nil {
			return nil, err
		}

		return usernames, nil
	})
}

// GetProfile returns one user's public projects.
func GetProfile(ctx *gin.Context) {
	username := ctx.Param("username")

	if username == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}

	var user models.User

	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		} else {
			log.Printf("Failed to fetch user %s: %v", username, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		}
		return
	}

	serveListing(ctx, ListingCache, profileCachePrefix+username, profileStaleness, func() (interface{}, error) {
		var airdrops []models.Airdrop

		err := db.DB.Where("owner_id = ? AND public = ?", user.ID, true).
			Order("last_activity DESC").
			Find(&airdrops).Error

		if err != nil {
			return nil, err
		}

		utils.SortAirdrops(airdrops)

		response := make([]AirdropResponse, 0, len(airdrops))
		for _, airdrop := range airdrops {
			response = append(response, toAirdropResponse(airdrop))
		}

		return response, nil
	})
}

// CopyFromPool copies a public project from the pool into the caller's own
// list. Repeated copies of the same source are rejected.
func CopyFromPool(ctx *gin.Context) {
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

	var source models.Airdrop

	if err := db.DB.Where("id = ? AND public = ?", airdropID, true).First(&source).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Airdrop not found"})
		} else {
			log.Printf("Failed to fetch pool airdrop: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve airdrop"})
		}
		return
	}

	if source.OwnerID == userID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Cannot copy your own project"})
		return
	}

	var copied models.CopiedProject

	err = db.DB.Where("user_id = ? AND source_airdrop_id = ?", userID, source.ID).First(&copied).Error

	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Project already copied"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check copied project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	now := time.Now()

	airdrop := models.Airdrop{
		OwnerID:      userID,
		Name:         source.Name,
		Logo:         source.Logo,
		Link:         source.Link,
		Social:       source.Social,
		Chain:        source.Chain,
		Stage:        source.Stage,
		Type:         source.Type,
		Tags:         source.Tags,
		JoinedAt:     now,
		LastActivity: now,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&airdrop).Error; err != nil {
			return err
		}
		return tx.Create(&models.CopiedProject{
			UserID:          userID,
			SourceAirdropID: source.ID,
		}).Error
	})

	if err != nil {
		status := statusForCopyError(err)
		if status == http.StatusConflict {
			ctx.JSON(status, gin.H{"error": "Project already copied"})
			return
		}
		log.Printf("Failed to copy airdrop %s: %v", source.ID, err)
		ctx.JSON(status, gin.H{"error": "Failed to copy airdrop"})
		return
	}

	currentUser, _ := utils.GetCurrentUser(ctx)
	BroadcastRefresh(currentUser.Username)

	ctx.JSON(http.StatusCreated, toAirdropResponse(airdrop))
}

// statusForCopyError distinguishes a concurrent duplicate copy, rejected by
// the unique (user, source) pair index, from a real failure. Two racing
// copies both pass the existence check; the loser's insert must still come
// back as a conflict, not a server error.
func statusForCopyError(err error) int {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// serveListing is the read-through path shared by the public listings:
// cached value within the window wins, a fresh value refreshes the cache,
// and a stale value is better than an error page.
func serveListing(ctx *gin.Context, store listingCache, key string, staleness time.Duration, fetch func() (interface{}, error)) {
	cached, age, ok := store.Read(ctx, key)

	if ok && age < staleness {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	fresh, err := fetch()

	if err != nil {
		log.Printf("Failed to refresh listing %s: %v", key, err)
		if ok {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listing"})
		return
	}

	if err := store.Write(ctx, key, fresh); err != nil {
		log.Printf("Failed to cache listing %s: %v", key, err)
	}

	body, err := json.Marshal(fresh)
	if err != nil {
		log.Printf("Failed to encode listing %s: %v", key, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode listing"})
		return
	}

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
