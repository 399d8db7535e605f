package validation

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"mingle/internal/models"
)

const (
	MaxTitleLength   = 300
	MaxContentLength = 50000
	MaxCommentLength = 10000

	DefaultExpirationHours = 24
	MaxExpirationHours     = 24 * 365
)

// ValidateTitle returns the trimmed title.
func ValidateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", fmt.Errorf("title too long (max %d characters)", MaxTitleLength)
	}
	return title, nil
}

// ValidateContent returns the trimmed post body.
func ValidateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("content is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return "", fmt.Errorf("content too long (max %d characters)", MaxContentLength)
	}
	return content, nil
}

// ValidateComment returns the trimmed comment text.
func ValidateComment(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("comment text is required")
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return "", fmt.Errorf("comment too long (max %d characters)", MaxCommentLength)
	}
	return text, nil
}

// ParseTopics requires at least one topic, rejects unknown names and drops
// repeats while keeping first-seen order.
func ParseTopics(raw []string) ([]models.Topic, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("at least one topic is required")
	}
	seen := make(map[models.Topic]struct{}, len(raw))
	topics := make([]models.Topic, 0, len(raw))
	for _, s := range raw {
		t, ok := models.ParseTopic(s)
		if !ok {
			return nil, fmt.Errorf("invalid topic %q (allowed: Politics, Health, Sport, Tech)", s)
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		topics = append(topics, t)
	}
	return topics, nil
}

// ExpirationDuration converts the requested lifetime in hours. A nil value
// selects DefaultExpirationHours; fractions are allowed.
func ExpirationDuration(hours *float64) (time.Duration, error) {
	h := float64(DefaultExpirationHours)
	if hours != nil {
		h = *hours
	}
	if math.IsNaN(h) || h <= 0 || h > MaxExpirationHours {
		return 0, fmt.Errorf("expirationHours must be greater than 0 and at most %d", MaxExpirationHours)
	}
	return time.Duration(h * float64(time.Hour)), nil
}
