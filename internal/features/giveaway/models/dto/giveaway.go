package dto

import "luminora-backend/internal/features/giveaway/models"

// GiveawayCreateRequest is the request body for creating a giveaway.
type GiveawayCreateRequest struct {
	Title      string `json:"title" binding:"required"`
	Host       string `json:"host" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	ChannelURL string `json:"channel_url" binding:"required"`
	EndTime    int64  `json:"end_time" binding:"required"` // epoch millis
}

// GiveawayCreateResponse returns the id of a freshly created giveaway.
type GiveawayCreateResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// GiveawayResponse is a giveaway with its derived display fields.
type GiveawayResponse struct {
	models.Giveaway
	ParticipantCount int  `json:"participant_count"`
	IsEnded          bool `json:"is_ended"`
}

// GiveawayDetailResponse additionally carries the participant list and,
// once the giveaway has ended, the winner.
type GiveawayDetailResponse struct {
	models.Giveaway
	Participants     []*models.Participant `json:"participants"`
	ParticipantCount int                   `json:"participant_count"`
	IsEnded          bool                  `json:"is_ended"`
	Winner           *models.Participant   `json:"winner"`
}

// JoinResponse returns the new participant together with its referral link.
type JoinResponse struct {
	Success       bool   `json:"success"`
	ParticipantID string `json:"participant_id"`
	RefLink       string `json:"ref_link"`
	Avatar        string `json:"avatar"`
}

// CountdownResponse reports the time left on a giveaway.
type CountdownResponse struct {
	Remaining int64 `json:"remaining"` // millis, never negative
	IsEnded   bool  `json:"is_ended"`
}

// GlobalLeaderboardEntry is a participant tagged with its giveaway.
type GlobalLeaderboardEntry struct {
	models.Participant
	GiveawayID    string `json:"giveaway_id"`
	GiveawayTitle string `json:"giveaway_title"`
}

// StatsResponse aggregates platform-wide counters.
type StatsResponse struct {
	TotalGiveaways    int `json:"total_giveaways"`
	ActiveGiveaways   int `json:"active_giveaways"`
	EndedGiveaways    int `json:"ended_giveaways"`
	TotalParticipants int `json:"total_participants"`
	TotalReferrals    int `json:"total_referrals"`
}

// BlockIPRequest is the admin request for blocking an IP.
type BlockIPRequest struct {
	Token string `json:"token" binding:"required"`
	IP    string `json:"ip" binding:"required"`
}

// SuccessResponse is the bare success envelope.
type SuccessResponse struct {
	Success bool `json:"success"`
}
