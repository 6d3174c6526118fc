// Package redis implements the giveaway repository on Redis, for
// deployments where the flat-file store is swapped out. Referral
// attribution keys live in Redis sets, so crediting is an atomic SADD
// and a participant's ref_count is derived from the set cardinality.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"luminora-backend/internal/features/giveaway/models"
	"luminora-backend/internal/features/giveaway/repository"
)

const (
	keyPrefixGiveaway     = "giveaway:"
	keyPrefixParticipant  = "participant:"
	keyPrefixParticipants = "giveaway:participants:"
	keyPrefixReferrals    = "referrals:"
	keyGiveaways          = "giveaways"
)

type redisRepository struct {
	client *redis.Client
}

func New(client *redis.Client) repository.GiveawayRepository {
	return &redisRepository{client: client}
}

func giveawayKey(id string) string {
	return keyPrefixGiveaway + id
}

func participantKey(giveawayID, participantID string) string {
	return keyPrefixParticipant + giveawayID + ":" + participantID
}

func participantsKey(giveawayID string) string {
	return keyPrefixParticipants + giveawayID
}

func referralsKey(giveawayID, participantID string) string {
	return keyPrefixReferrals + giveawayID + ":" + participantID
}

func (r *redisRepository) Create(ctx context.Context, giveaway *models.Giveaway) error {
	data, err := json.Marshal(giveaway)
	if err != nil {
		return fmt.Errorf("failed to marshal giveaway: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, giveawayKey(giveaway.ID), data, 0)
	pipe.SAdd(ctx, keyGiveaways, giveaway.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisRepository) GetByID(ctx context.Context, id string) (*models.Giveaway, error) {
	data, err := r.client.Get(ctx, giveawayKey(id)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrGiveawayNotFound
	}
	if err != nil {
		return nil, err
	}

	var giveaway models.Giveaway
	if err := json.Unmarshal(data, &giveaway); err != nil {
		return nil, err
	}
	return &giveaway, nil
}

func (r *redisRepository) List(ctx context.Context) ([]*models.Giveaway, error) {
	ids, err := r.client.SMembers(ctx, keyGiveaways).Result()
	if err != nil {
		return nil, err
	}

	giveaways := make([]*models.Giveaway, 0, len(ids))
	for _, id := range ids {
		giveaway, err := r.GetByID(ctx, id)
		if err == repository.ErrGiveawayNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		giveaways = append(giveaways, giveaway)
	}
	return giveaways, nil
}

func (r *redisRepository) ListByCreator(ctx context.Context, creatorIP string) ([]*models.Giveaway, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []*models.Giveaway
	for _, giveaway := range all {
		if giveaway.CreatorIP == creatorIP {
			out = append(out, giveaway)
		}
	}
	return out, nil
}

func (r *redisRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}

	participantIDs, err := r.client.SMembers(ctx, participantsKey(id)).Result()
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	for _, pid := range participantIDs {
		pipe.Del(ctx, participantKey(id, pid))
		pipe.Del(ctx, referralsKey(id, pid))
	}
	pipe.Del(ctx, participantsKey(id))
	pipe.Del(ctx, giveawayKey(id))
	pipe.SRem(ctx, keyGiveaways, id)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisRepository) AddParticipant(ctx context.Context, giveawayID string, participant *models.Participant) error {
	if _, err := r.GetByID(ctx, giveawayID); err != nil {
		return err
	}

	data, err := json.Marshal(participant)
	if err != nil {
		return fmt.Errorf("failed to marshal participant: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, participantKey(giveawayID, participant.ID), data, 0)
	pipe.SAdd(ctx, participantsKey(giveawayID), participant.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisRepository) GetParticipant(ctx context.Context, giveawayID, participantID string) (*models.Participant, error) {
	data, err := r.client.Get(ctx, participantKey(giveawayID, participantID)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrParticipantNotFound
	}
	if err != nil {
		return nil, err
	}

	var participant models.Participant
	if err := json.Unmarshal(data, &participant); err != nil {
		return nil, err
	}

	// ref_count is derived from the credited key set, which is the
	// source of truth here.
	credited, err := r.client.SCard(ctx, referralsKey(giveawayID, participantID)).Result()
	if err != nil {
		return nil, err
	}
	participant.RefCount = int(credited)

	return &participant, nil
}

func (r *redisRepository) Participants(ctx context.Context, giveawayID string) ([]*models.Participant, error) {
	if _, err := r.GetByID(ctx, giveawayID); err != nil {
		return nil, err
	}

	ids, err := r.client.SMembers(ctx, participantsKey(giveawayID)).Result()
	if err != nil {
		return nil, err
	}

	participants := make([]*models.Participant, 0, len(ids))
	for _, pid := range ids {
		participant, err := r.GetParticipant(ctx, giveawayID, pid)
		if err == repository.ErrParticipantNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		participants = append(participants, participant)
	}
	return participants, nil
}

func (r *redisRepository) ParticipantCount(ctx context.Context, giveawayID string) (int, error) {
	count, err := r.client.SCard(ctx, participantsKey(giveawayID)).Result()
	return int(count), err
}

func (r *redisRepository) FindParticipantByIdentity(ctx context.Context, giveawayID, name, fingerprint string) (*models.Participant, error) {
	participants, err := r.Participants(ctx, giveawayID)
	if err != nil {
		if err == repository.ErrGiveawayNotFound {
			return nil, repository.ErrParticipantNotFound
		}
		return nil, err
	}

	want := strings.ToLower(strings.TrimSpace(name))
	for _, participant := range participants {
		if strings.ToLower(strings.TrimSpace(participant.Name)) == want &&
			participant.DeviceFingerprint == fingerprint {
			return participant, nil
		}
	}
	return nil, repository.ErrParticipantNotFound
}

func (r *redisRepository) CreditReferral(ctx context.Context, giveawayID, participantID, attributionKey string) (bool, error) {
	exists, err := r.client.Exists(ctx, participantKey(giveawayID, participantID)).Result()
	if err != nil {
		return false, err
	}
	if exists == 0 {
		return false, repository.ErrParticipantNotFound
	}

	added, err := r.client.SAdd(ctx, referralsKey(giveawayID, participantID), attributionKey).Result()
	if err != nil {
		return false, err
	}
	return added == 1, nil
}

func (r *redisRepository) TotalReferrals(ctx context.Context) (int, error) {
	total := 0
	iter := r.client.Scan(ctx, 0, keyPrefixReferrals+"*", 0).Iterator()
	for iter.Next(ctx) {
		credited, err := r.client.SCard(ctx, iter.Val()).Result()
		if err != nil {
			return 0, err
		}
		total += int(credited)
	}
	return total, iter.Err()
}
