package service

import (
	"context"
	"mime/multipart"

	"luminora-backend/internal/features/giveaway/models"
	"luminora-backend/internal/features/giveaway/models/dto"
)

// JoinInput carries everything a join attempt knows about the visitor.
type JoinInput struct {
	Name        string
	Avatar      *multipart.FileHeader
	IP          string
	Fingerprint string
}

// VisitStatus classifies what a public referral visit should render.
type VisitStatus int

const (
	VisitRedirect VisitStatus = iota
	VisitNotFound
	VisitEnded
)

// VisitOutcome is the result of a public referral visit. Redirect
// visits carry the channel URL; ended visits carry the winner, if any.
type VisitOutcome struct {
	Status   VisitStatus
	Giveaway *models.Giveaway
	Winner   *models.Participant
	Credited bool
}

// GiveawayService defines the interface for giveaway operations
type GiveawayService interface {
	Create(ctx context.Context, input *dto.GiveawayCreateRequest, creatorIP string) (string, error)
	GetByID(ctx context.Context, giveawayID string) (*dto.GiveawayDetailResponse, error)
	List(ctx context.Context) ([]*dto.GiveawayResponse, error)
	ListByCreator(ctx context.Context, creatorIP string) ([]*dto.GiveawayResponse, error)
	Delete(ctx context.Context, giveawayID, requesterIP string) error

	Join(ctx context.Context, giveawayID string, input *JoinInput) (*dto.JoinResponse, error)
	Visit(ctx context.Context, giveawayID, referrerID, ip, fp string) (*VisitOutcome, error)

	Countdown(ctx context.Context, giveawayID string) (*dto.CountdownResponse, error)
	Leaderboard(ctx context.Context, giveawayID string) ([]*models.Participant, error)
	GlobalLeaderboard(ctx context.Context) ([]*dto.GlobalLeaderboardEntry, error)
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}
