package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Default allowed origins for development
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// AllowedOrigins reads the environment on every call rather than at package
// init, so origins configured through a .env file loaded in main are seen.
func AllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}

// Fixed classification vocabularies. Chain stays free text; these two are
// validated on every write.
var (
	Stages = []string{"pending", "testnet", "mainnet", "snapshot", "claimable", "ended"}
	Types  = []string{"retroactive", "testnet", "node", "social", "holding", "other"}
)

func ValidStage(s string) bool { return contains(Stages, s) }

func ValidType(t string) bool { return contains(Types, t) }

func contains(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

// ListingCap bounds the two unbounded listings (pool and admin bulk export).
const ListingCap = 1000
