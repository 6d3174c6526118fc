package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "luminora-backend/internal/common/errors"
	"luminora-backend/internal/common/logger"
	"luminora-backend/internal/common/validation"
	"luminora-backend/internal/features/fingerprint"
	"luminora-backend/internal/features/giveaway/avatar"
	"luminora-backend/internal/features/giveaway/mapper"
	"luminora-backend/internal/features/giveaway/models"
	"luminora-backend/internal/features/giveaway/models/dto"
	"luminora-backend/internal/features/giveaway/repository"
)

const (
	leaderboardLimit       = 50
	globalLeaderboardLimit = 100
)

type giveawayService struct {
	repo          repository.GiveawayRepository
	avatars       *avatar.Saver
	publicBaseURL string
}

func NewGiveawayService(repo repository.GiveawayRepository, avatars *avatar.Saver, publicBaseURL string) GiveawayService {
	return &giveawayService{
		repo:          repo,
		avatars:       avatars,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *giveawayService) Create(ctx context.Context, input *dto.GiveawayCreateRequest, creatorIP string) (string, error) {
	if err := validation.ValidateTitle(input.Title); err != nil {
		return "", apperrors.NewValidationError("title", err.Error())
	}
	if err := validation.ValidateHost(input.Host); err != nil {
		return "", apperrors.NewValidationError("host", err.Error())
	}
	if err := validation.ValidatePhone(input.Phone); err != nil {
		return "", apperrors.NewValidationError("phone", err.Error())
	}
	if err := validation.ValidateChannelURL(input.ChannelURL); err != nil {
		return "", apperrors.NewValidationError("channel_url", err.Error())
	}
	if err := validation.ValidateEndTime(input.EndTime, time.Now()); err != nil {
		return "", apperrors.NewValidationError("end_time", err.Error())
	}

	giveaway := &models.Giveaway{
		ID:         uuid.New().String(),
		Title:      strings.TrimSpace(input.Title),
		Host:       strings.TrimSpace(input.Host),
		Phone:      strings.TrimSpace(input.Phone),
		ChannelURL: strings.TrimSpace(input.ChannelURL),
		EndTime:    input.EndTime,
		CreatedAt:  time.Now().UnixMilli(),
		CreatorIP:  creatorIP,
		Status:     models.GiveawayStatusActive,
	}

	if err := s.repo.Create(ctx, giveaway); err != nil {
		return "", apperrors.NewStorageError("create giveaway", err)
	}

	logger.Info().
		Str("giveaway_id", giveaway.ID).
		Str("creator_ip", creatorIP).
		Int64("end_time", giveaway.EndTime).
		Msg("Giveaway created")

	return giveaway.ID, nil
}

func (s *giveawayService) GetByID(ctx context.Context, giveawayID string) (*dto.GiveawayDetailResponse, error) {
	giveaway, err := s.repo.GetByID(ctx, giveawayID)
	if err != nil {
		if err == repository.ErrGiveawayNotFound {
			return nil, apperrors.NewGiveawayNotFoundError(giveawayID)
		}
		return nil, apperrors.NewStorageError("get giveaway", err)
	}

	participants, err := s.repo.Participants(ctx, giveawayID)
	if err != nil {
		return nil, apperrors.NewStorageError("get participants", err)
	}

	return mapper.ToGiveawayDetailResponse(giveaway, participants, time.Now()), nil
}

func (s *giveawayService) List(ctx context.Context) ([]*dto.GiveawayResponse, error) {
	giveaways, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list giveaways", err)
	}
	return s.toResponses(ctx, giveaways)
}

func (s *giveawayService) ListByCreator(ctx context.Context, creatorIP string) ([]*dto.GiveawayResponse, error) {
	giveaways, err := s.repo.ListByCreator(ctx, creatorIP)
	if err != nil {
		return nil, apperrors.NewStorageError("list giveaways by creator", err)
	}
	return s.toResponses(ctx, giveaways)
}

func (s *giveawayService) toResponses(ctx context.Context, giveaways []*models.Giveaway) ([]*dto.GiveawayResponse, error) {
	now := time.Now()
	out := make([]*dto.GiveawayResponse, 0, len(giveaways))
	for _, giveaway := range giveaways {
		count, err := s.repo.ParticipantCount(ctx, giveaway.ID)
		if err != nil {
			return nil, apperrors.NewStorageError("count participants", err)
		}
		out = append(out, mapper.ToGiveawayResponse(giveaway, count, now))
	}
	return out, nil
}

func (s *giveawayService) Delete(ctx context.Context, giveawayID, requesterIP string) error {
	giveaway, err := s.repo.GetByID(ctx, giveawayID)
	if err != nil {
		if err == repository.ErrGiveawayNotFound {
			return apperrors.NewGiveawayNotFoundError(giveawayID)
		}
		return apperrors.NewStorageError("get giveaway", err)
	}

	if giveaway.CreatorIP != requesterIP {
		return apperrors.NewForbiddenError("only the creator can delete this giveaway")
	}

	if err := s.repo.Delete(ctx, giveawayID); err != nil {
		return apperrors.NewStorageError("delete giveaway", err)
	}

	logger.Info().
		Str("giveaway_id", giveawayID).
		Str("requester_ip", requesterIP).
		Msg("Giveaway deleted")

	return nil
}

func (s *giveawayService) Join(ctx context.Context, giveawayID string, input *JoinInput) (*dto.JoinResponse, error) {
	giveaway, err := s.repo.GetByID(ctx, giveawayID)
	if err != nil {
		if err == repository.ErrGiveawayNotFound {
			return nil, apperrors.NewGiveawayNotFoundError(giveawayID)
		}
		return nil, apperrors.NewStorageError("get giveaway", err)
	}

	if giveaway.IsEnded(time.Now()) {
		return nil, apperrors.New(apperrors.ErrCodeGiveawayEnded, "Giveaway has ended")
	}

	if err := validation.ValidateParticipantName(input.Name); err != nil {
		return nil, apperrors.NewValidationError("name", err.Error())
	}

	// One entry per (name, device) pair per giveaway, compared on the
	// trimmed case-insensitive name.
	if _, err := s.repo.FindParticipantByIdentity(ctx, giveawayID, input.Name, input.Fingerprint); err == nil {
		return nil, apperrors.NewConflictError("participant", "you have already joined this giveaway").
			WithDetail("giveaway_id", giveawayID)
	} else if err != repository.ErrParticipantNotFound {
		return nil, apperrors.NewStorageError("find participant", err)
	}

	avatarURL := ""
	if input.Avatar != nil {
		avatarURL, err = s.avatars.Save(input.Avatar)
		if err != nil {
			return nil, err
		}
	} else {
		avatarURL = avatar.RandomStock()
	}

	participant := &models.Participant{
		ID:                uuid.New().String(),
		Name:              strings.TrimSpace(input.Name),
		Avatar:            avatarURL,
		RefCount:          0,
		JoinedAt:          time.Now().UnixMilli(),
		IP:                input.IP,
		DeviceFingerprint: input.Fingerprint,
	}

	if err := s.repo.AddParticipant(ctx, giveawayID, participant); err != nil {
		return nil, apperrors.NewStorageError("add participant", err)
	}

	logger.Info().
		Str("giveaway_id", giveawayID).
		Str("participant_id", participant.ID).
		Str("name", participant.Name).
		Msg("Participant joined")

	return &dto.JoinResponse{
		Success:       true,
		ParticipantID: participant.ID,
		RefLink:       s.publicBaseURL + "/g/" + giveawayID + "?ref=" + participant.ID,
		Avatar:        avatarURL,
	}, nil
}

// Visit handles a public referral visit: an unknown giveaway renders
// not-found, an ended giveaway renders the winner page without
// crediting, an unknown referrer just redirects, and a known referrer
// is credited at most once per attribution key. Attribution failures
// are soft: the visitor is still redirected.
func (s *giveawayService) Visit(ctx context.Context, giveawayID, referrerID, ip, fp string) (*VisitOutcome, error) {
	giveaway, err := s.repo.GetByID(ctx, giveawayID)
	if err != nil {
		if err == repository.ErrGiveawayNotFound {
			return &VisitOutcome{Status: VisitNotFound}, nil
		}
		return nil, apperrors.NewStorageError("get giveaway", err)
	}

	if giveaway.IsEnded(time.Now()) {
		participants, err := s.repo.Participants(ctx, giveawayID)
		if err != nil {
			logger.Error().Err(err).Str("giveaway_id", giveawayID).Msg("Failed to load participants for ended page")
			participants = nil
		}
		return &VisitOutcome{
			Status:   VisitEnded,
			Giveaway: giveaway,
			Winner:   models.Winner(participants),
		}, nil
	}

	outcome := &VisitOutcome{Status: VisitRedirect, Giveaway: giveaway}

	if referrerID == "" {
		return outcome, nil
	}

	key := fingerprint.AttributionKey(ip, fp)
	credited, err := s.repo.CreditReferral(ctx, giveawayID, referrerID, key)
	switch {
	case err == repository.ErrParticipantNotFound:
		// Unknown referrer reference: redirect only.
	case err != nil:
		logger.Error().Err(err).
			Str("giveaway_id", giveawayID).
			Str("referrer_id", referrerID).
			Msg("Referral attribution failed")
	case credited:
		outcome.Credited = true
		logger.Debug().
			Str("giveaway_id", giveawayID).
			Str("referrer_id", referrerID).
			Msg("Referral credited")
	}

	return outcome, nil
}

func (s *giveawayService) Countdown(ctx context.Context, giveawayID string) (*dto.CountdownResponse, error) {
	giveaway, err := s.repo.GetByID(ctx, giveawayID)
	if err != nil {
		if err == repository.ErrGiveawayNotFound {
			return nil, apperrors.NewGiveawayNotFoundError(giveawayID)
		}
		return nil, apperrors.NewStorageError("get giveaway", err)
	}

	now := time.Now()
	return &dto.CountdownResponse{
		Remaining: giveaway.Remaining(now),
		IsEnded:   giveaway.IsEnded(now),
	}, nil
}

func (s *giveawayService) Leaderboard(ctx context.Context, giveawayID string) ([]*models.Participant, error) {
	participants, err := s.repo.Participants(ctx, giveawayID)
	if err != nil {
		if err == repository.ErrGiveawayNotFound {
			return nil, apperrors.NewGiveawayNotFoundError(giveawayID)
		}
		return nil, apperrors.NewStorageError("get participants", err)
	}

	models.SortByReferrals(participants)
	if len(participants) > leaderboardLimit {
		participants = participants[:leaderboardLimit]
	}
	return participants, nil
}

func (s *giveawayService) GlobalLeaderboard(ctx context.Context) ([]*dto.GlobalLeaderboardEntry, error) {
	giveaways, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list giveaways", err)
	}

	var entries []*dto.GlobalLeaderboardEntry
	for _, giveaway := range giveaways {
		participants, err := s.repo.Participants(ctx, giveaway.ID)
		if err != nil {
			return nil, apperrors.NewStorageError("get participants", err)
		}
		for _, participant := range participants {
			entries = append(entries, mapper.ToGlobalLeaderboardEntry(participant, giveaway))
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].RefCount != entries[j].RefCount {
			return entries[i].RefCount > entries[j].RefCount
		}
		return entries[i].JoinedAt < entries[j].JoinedAt
	})
	if len(entries) > globalLeaderboardLimit {
		entries = entries[:globalLeaderboardLimit]
	}
	return entries, nil
}

func (s *giveawayService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	giveaways, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list giveaways", err)
	}

	now := time.Now()
	stats := &dto.StatsResponse{TotalGiveaways: len(giveaways)}
	for _, giveaway := range giveaways {
		if giveaway.IsEnded(now) {
			stats.EndedGiveaways++
		} else {
			stats.ActiveGiveaways++
		}
		count, err := s.repo.ParticipantCount(ctx, giveaway.ID)
		if err != nil {
			return nil, apperrors.NewStorageError("count participants", err)
		}
		stats.TotalParticipants += count
	}

	totalReferrals, err := s.repo.TotalReferrals(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("total referrals", err)
	}
	stats.TotalReferrals = totalReferrals

	return stats, nil
}
