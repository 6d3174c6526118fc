package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	MaxTitleLength = 200
	MaxHostLength  = 100

	MinTitleLength = 1
	MinNameLength  = 2
)

// Loose phone pattern: optional +, then at least ten digits, spaces,
// dashes or parentheses.
var phoneRegex = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)

// ValidateTitle checks a giveaway title.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if len(title) < MinTitleLength {
		return fmt.Errorf("title cannot be empty")
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("title cannot exceed %d characters", MaxTitleLength)
	}
	return nil
}

// ValidateHost checks a host display name.
func ValidateHost(host string) error {
	host = strings.TrimSpace(host)
	if host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if len(host) > MaxHostLength {
		return fmt.Errorf("host cannot exceed %d characters", MaxHostLength)
	}
	return nil
}

// ValidatePhone checks a contact phone number against the loose pattern.
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(strings.TrimSpace(phone)) {
		return fmt.Errorf("invalid phone number format")
	}
	return nil
}

// ValidateChannelURL checks that the destination channel URL is a
// well-formed absolute http(s) URL.
func ValidateChannelURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid channel URL")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("channel URL must be an absolute http(s) URL")
	}
	return nil
}

// ValidateEndTime checks that the end timestamp (epoch millis) is
// strictly in the future.
func ValidateEndTime(endTimeMillis int64, now time.Time) error {
	if endTimeMillis <= now.UnixMilli() {
		return fmt.Errorf("end time must be in the future")
	}
	return nil
}

// ValidateParticipantName checks a participant display name.
func ValidateParticipantName(name string) error {
	if len(strings.TrimSpace(name)) < MinNameLength {
		return fmt.Errorf("name must be at least %d characters long", MinNameLength)
	}
	return nil
}
