package models

import "time"

// GiveawayStatus represents the stored status tag of a giveaway.
type GiveawayStatus string

const (
	GiveawayStatusActive GiveawayStatus = "active"
)

// Giveaway is a time-bounded contest. It is immutable after creation
// except for deletion; whether it has ended is derived from EndTime,
// never stored.
type Giveaway struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Host       string         `json:"host"`
	Phone      string         `json:"phone"`
	ChannelURL string         `json:"channel_url"`
	EndTime    int64          `json:"end_time"`   // epoch millis
	CreatedAt  int64          `json:"created_at"` // epoch millis
	CreatorIP  string         `json:"creator_ip"`
	Status     GiveawayStatus `json:"status"`
}

// IsEnded reports whether the giveaway is over at the given instant.
// Every reader derives the flag through here so they agree.
func (g *Giveaway) IsEnded(now time.Time) bool {
	return now.UnixMilli() > g.EndTime
}

// Remaining returns the milliseconds left until the end, never negative.
func (g *Giveaway) Remaining(now time.Time) int64 {
	remaining := g.EndTime - now.UnixMilli()
	if remaining < 0 {
		return 0
	}
	return remaining
}
