package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cartwise/backend/internal/domain"
	log "github.com/sirupsen/logrus"
)

// Input limits for user-supplied request fields
const (
	MaxQueryLength   = 1000
	MaxUserIDLength  = 100
	MaxStoreIDLength = 64
)

// Compiled patterns for request validation
var (
	userIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	storeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	// Markup and script injection attempts, matched case-insensitively
	blockedQueryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script.*?>.*?</script>`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)data:text/html`),
		regexp.MustCompile(`(?i)vbscript:`),
		regexp.MustCompile(`(?i)onload=`),
		regexp.MustCompile(`(?i)onerror=`),
	}
)

// RequestGuard validates user input before it reaches the pipeline
type RequestGuard struct {
	enableDebugLogging bool
}

// NewRequestGuard creates a new request guard
func NewRequestGuard(enableDebugLogging bool) *RequestGuard {
	return &RequestGuard{enableDebugLogging: enableDebugLogging}
}

// ValidateQuery returns the trimmed query or an error wrapping ErrInvalidRequest
func (g *RequestGuard) ValidateQuery(query string) (string, error) {
	query = strings.TrimSpace(query)

	if query == "" {
		return "", fmt.Errorf("%w: query cannot be empty", domain.ErrInvalidRequest)
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return "", fmt.Errorf("%w: query too long (max %d characters)", domain.ErrInvalidRequest, MaxQueryLength)
	}

	for _, pattern := range blockedQueryPatterns {
		if pattern.MatchString(query) {
			log.Warnf("[GUARD] blocked query pattern detected: %s", pattern.String())
			return "", fmt.Errorf("%w: query contains blocked content", domain.ErrInvalidRequest)
		}
	}

	if g.enableDebugLogging {
		log.Debugf("[GUARD] query accepted: %q", query)
	}
	return query, nil
}

// ValidateUserID checks a history owner id
func (g *RequestGuard) ValidateUserID(userID string) (string, error) {
	return validateIdentifier("user id", userID, MaxUserIDLength, userIDPattern)
}

// ValidateStoreID checks a catalog store id
func (g *RequestGuard) ValidateStoreID(storeID string) (string, error) {
	return validateIdentifier("store id", storeID, MaxStoreIDLength, storeIDPattern)
}

func validateIdentifier(field, value string, maxLength int, pattern *regexp.Regexp) (string, error) {
	value = strings.TrimSpace(value)

	if value == "" {
		return "", fmt.Errorf("%w: %s is required", domain.ErrInvalidRequest, field)
	}
	if len(value) > maxLength {
		return "", fmt.Errorf("%w: %s too long (max %d characters)", domain.ErrInvalidRequest, field, maxLength)
	}
	if !pattern.MatchString(value) {
		return "", fmt.Errorf("%w: %s may only contain letters, digits, '_' and '-'", domain.ErrInvalidRequest, field)
	}
	return value, nil
}
