// Package mapper builds API responses from stored entities. All derived
// fields (is_ended, winner, participant_count) are computed here from
// the same pure helpers, so every reader reports them identically.
package mapper

import (
	"time"

	"luminora-backend/internal/features/giveaway/models"
	"luminora-backend/internal/features/giveaway/models/dto"
)

// ToGiveawayResponse maps a giveaway to its list representation.
func ToGiveawayResponse(giveaway *models.Giveaway, participantCount int, now time.Time) *dto.GiveawayResponse {
	return &dto.GiveawayResponse{
		Giveaway:         *giveaway,
		ParticipantCount: participantCount,
		IsEnded:          giveaway.IsEnded(now),
	}
}

// ToGiveawayDetailResponse maps a giveaway and its participants to the
// detail representation. The winner is only reported once the giveaway
// has ended; it is derived, never persisted.
func ToGiveawayDetailResponse(giveaway *models.Giveaway, participants []*models.Participant, now time.Time) *dto.GiveawayDetailResponse {
	isEnded := giveaway.IsEnded(now)

	var winner *models.Participant
	if isEnded {
		winner = models.Winner(participants)
	}

	models.SortByReferrals(participants)

	return &dto.GiveawayDetailResponse{
		Giveaway:         *giveaway,
		Participants:     participants,
		ParticipantCount: len(participants),
		IsEnded:          isEnded,
		Winner:           winner,
	}
}

// ToGlobalLeaderboardEntry tags a participant with its giveaway.
func ToGlobalLeaderboardEntry(participant *models.Participant, giveaway *models.Giveaway) *dto.GlobalLeaderboardEntry {
	return &dto.GlobalLeaderboardEntry{
		Participant:   *participant,
		GiveawayID:    giveaway.ID,
		GiveawayTitle: giveaway.Title,
	}
}
