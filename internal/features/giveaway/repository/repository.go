package repository

import (
	"context"
	"errors"

	"luminora-backend/internal/features/giveaway/models"
)

var (
	ErrGiveawayNotFound    = errors.New("giveaway not found")
	ErrParticipantNotFound = errors.New("participant not found")
)

// GiveawayRepository owns the giveaway, participant and referral
// collections. Implementations serialize read-modify-write cycles so
// concurrent referral visits cannot lose updates.
type GiveawayRepository interface {
	Create(ctx context.Context, giveaway *models.Giveaway) error
	GetByID(ctx context.Context, id string) (*models.Giveaway, error)
	List(ctx context.Context) ([]*models.Giveaway, error)
	ListByCreator(ctx context.Context, creatorIP string) ([]*models.Giveaway, error)

	// Delete removes the giveaway and all of its participants and
	// referral records as a unit.
	Delete(ctx context.Context, id string) error

	AddParticipant(ctx context.Context, giveawayID string, participant *models.Participant) error
	GetParticipant(ctx context.Context, giveawayID, participantID string) (*models.Participant, error)
	Participants(ctx context.Context, giveawayID string) ([]*models.Participant, error)
	ParticipantCount(ctx context.Context, giveawayID string) (int, error)

	// FindParticipantByIdentity matches an existing participant by
	// trimmed case-insensitive name plus device fingerprint.
	FindParticipantByIdentity(ctx context.Context, giveawayID, name, fingerprint string) (*models.Participant, error)

	// CreditReferral atomically credits one referral to the participant
	// for the given attribution key. It reports whether the credit was
	// applied; a key already credited is a no-op. The participant's
	// ref_count always equals the size of its credited key set.
	CreditReferral(ctx context.Context, giveawayID, participantID, attributionKey string) (bool, error)

	// TotalReferrals sums the credited key set sizes across the platform.
	TotalReferrals(ctx context.Context) (int, error)
}
