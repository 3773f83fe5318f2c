package utils

import (
	"errors"
	"net/url"
	"sort"
	"strings"

	"github.com/dropdeck-dev/dropdeck/internal/models"
	"github.com/gin-gonic/gin"
)

func GetAirdropID(ctx *gin.Context) (string, error) {
	airdropID := ctx.Param("id")

	if airdropID == "" {
		return "", errors.New("Airdrop ID not found")
	}

	return airdropID, nil
}

// ExtractRawDomain reduces a link to its bare hostname: scheme and path
// stripped, "www." removed, lowercased. Used as the pool de-duplication key.
func ExtractRawDomain(input string) (string, error) {
	if input == "" {
		return "", errors.New("input cannot be empty")
	}

	domain := strings.TrimSpace(input)

	if strings.Contains(domain, "://") {
		parsedURL, err := url.Parse(domain)
		if err != nil {
			return "", errors.New("invalid URL format")
		}

		if parsedURL.Hostname() == "" {
			return "", errors.New("no hostname found in URL")
		}

		domain = parsedURL.Hostname()
	} else if idx := strings.IndexAny(domain, "/?"); idx >= 0 {
		domain = domain[:idx]
	}

	domain = strings.ToLower(strings.TrimSuffix(domain, "/"))
	domain = strings.TrimPrefix(domain, "www.")

	if domain == "" {
		return "", errors.New("invalid domain after processing")
	}

	return domain, nil
}

// UniqueByDomain keeps the first airdrop seen per link domain, preserving
// input order. Entries whose link yields no domain are kept as-is.
func UniqueByDomain(airdrops []models.Airdrop) []models.Airdrop {
	seen := make(map[string]bool, len(airdrops))
	unique := make([]models.Airdrop, 0, len(airdrops))

	for _, airdrop := range airdrops {
		domain, err := ExtractRawDomain(airdrop.Link)
		if err != nil {
			unique = append(unique, airdrop)
			continue
		}

		if seen[domain] {
			continue
		}

		seen[domain] = true
		unique = append(unique, airdrop)
	}

	return unique
}

// SortAirdrops orders active projects first, then by most recent activity.
func SortAirdrops(airdrops []models.Airdrop) {
	sort.SliceStable(airdrops, func(i, j int) bool {
		if airdrops[i].Active != airdrops[j].Active {
			return airdrops[i].Active
		}
		return airdrops[i].LastActivity.After(airdrops[j].LastActivity)
	})
}

// MatchesQuery reports whether a project matches a case-insensitive
// substring search across its name, chain, notes, and tags.
func MatchesQuery(airdrop models.Airdrop, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))

	if query == "" {
		return true
	}

	fields := []string{airdrop.Name, airdrop.Chain, airdrop.Notes}
	fields = append(fields, airdrop.Tags...)

	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}

	return false
}

// FilterAirdrops returns the projects matching the query, preserving order.
func FilterAirdrops(airdrops []models.Airdrop, query string) []models.Airdrop {
	if strings.TrimSpace(query) == "" {
		return airdrops
	}

	matched := make([]models.Airdrop, 0, len(airdrops))
	for _, airdrop := range airdrops {
		if MatchesQuery(airdrop, query) {
			matched = append(matched, airdrop)
		}
	}
	return matched
}
