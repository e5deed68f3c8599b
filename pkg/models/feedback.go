package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackTag categorizes a feedback entry.
type FeedbackTag string

const (
	FeedbackTagBug            FeedbackTag = "bug"
	FeedbackTagFeatureRequest FeedbackTag = "feature_request"
	FeedbackTagUserExperience FeedbackTag = "user_experience"
	FeedbackTagPerformance    FeedbackTag = "performance"
	FeedbackTagSecurity       FeedbackTag = "security"
	FeedbackTagOther          FeedbackTag = "other"
)

// ValidFeedbackTags contains all valid feedback tag values.
var ValidFeedbackTags = []FeedbackTag{
	FeedbackTagBug,
	FeedbackTagFeatureRequest,
	FeedbackTagUserExperience,
	FeedbackTagPerformance,
	FeedbackTagSecurity,
	FeedbackTagOther,
}

// IsValidFeedbackTag checks if the given tag is one of the known values.
func IsValidFeedbackTag(tag FeedbackTag) bool {
	for _, t := range ValidFeedbackTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Feedback is an operator-submitted report about the tool itself.
// UserName and CreatedAt are immutable after creation; edits replace the
// remaining fields wholesale.
type Feedback struct {
	ID        uuid.UUID     `json:"id"`
	Label     string        `json:"label"`
	UserName  string        `json:"user_name"`
	Content   string        `json:"content"`
	Tags      []FeedbackTag `json:"tags"`
	Rating    int           `json:"rating"` // 1-5
	CreatedAt time.Time     `json:"created_at"`
}
