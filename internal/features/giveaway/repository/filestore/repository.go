// Package filestore implements the giveaway repository on top of flat
// JSON snapshot files. All collections are held in memory behind one
// RWMutex; every mutation rewrites the affected snapshots wholesale.
package filestore

import (
	"context"
	"strings"
	"sync"

	"luminora-backend/internal/features/giveaway/models"
	"luminora-backend/internal/features/giveaway/repository"
	"luminora-backend/internal/platform/filestore"
)

const (
	giveawaysFile    = "giveaways"
	participantsFile = "participants"
	referralsFile    = "referrals"
)

type giveawayRepository struct {
	store *filestore.Store

	mu           sync.RWMutex
	giveaways    map[string]*models.Giveaway
	participants map[string]map[string]*models.Participant
	referrals    map[string]map[string][]string
}

// New loads the snapshots from the store and returns a repository over them.
func New(store *filestore.Store) (repository.GiveawayRepository, error) {
	r := &giveawayRepository{
		store:        store,
		giveaways:    make(map[string]*models.Giveaway),
		participants: make(map[string]map[string]*models.Participant),
		referrals:    make(map[string]map[string][]string),
	}

	if err := store.Load(giveawaysFile, &r.giveaways); err != nil {
		return nil, err
	}
	if err := store.Load(participantsFile, &r.participants); err != nil {
		return nil, err
	}
	if err := store.Load(referralsFile, &r.referrals); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *giveawayRepository) Create(ctx context.Context, giveaway *models.Giveaway) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := *giveaway
	r.giveaways[g.ID] = &g
	r.participants[g.ID] = make(map[string]*models.Participant)
	r.referrals[g.ID] = make(map[string][]string)

	if err := r.store.Save(giveawaysFile, r.giveaways); err != nil {
		return err
	}
	if err := r.store.Save(participantsFile, r.participants); err != nil {
		return err
	}
	return r.store.Save(referralsFile, r.referrals)
}

func (r *giveawayRepository) GetByID(ctx context.Context, id string) (*models.Giveaway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	giveaway, ok := r.giveaways[id]
	if !ok {
		return nil, repository.ErrGiveawayNotFound
	}
	g := *giveaway
	return &g, nil
}

func (r *giveawayRepository) List(ctx context.Context) ([]*models.Giveaway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Giveaway, 0, len(r.giveaways))
	for _, giveaway := range r.giveaways {
		g := *giveaway
		out = append(out, &g)
	}
	return out, nil
}

func (r *giveawayRepository) ListByCreator(ctx context.Context, creatorIP string) ([]*models.Giveaway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.Giveaway
	for _, giveaway := range r.giveaways {
		if giveaway.CreatorIP == creatorIP {
			g := *giveaway
			out = append(out, &g)
		}
	}
	return out, nil
}

func (r *giveawayRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.giveaways[id]; !ok {
		return repository.ErrGiveawayNotFound
	}

	delete(r.giveaways, id)
	delete(r.participants, id)
	delete(r.referrals, id)

	if err := r.store.Save(giveawaysFile, r.giveaways); err != nil {
		return err
	}
	if err := r.store.Save(participantsFile, r.participants); err != nil {
		return err
	}
	return r.store.Save(referralsFile, r.referrals)
}

func (r *giveawayRepository) AddParticipant(ctx context.Context, giveawayID string, participant *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.giveaways[giveawayID]; !ok {
		return repository.ErrGiveawayNotFound
	}
	if r.participants[giveawayID] == nil {
		r.participants[giveawayID] = make(map[string]*models.Participant)
	}
	if r.referrals[giveawayID] == nil {
		r.referrals[giveawayID] = make(map[string][]string)
	}

	p := *participant
	r.participants[giveawayID][p.ID] = &p
	r.referrals[giveawayID][p.ID] = []string{}

	if err := r.store.Save(participantsFile, r.participants); err != nil {
		return err
	}
	return r.store.Save(referralsFile, r.referrals)
}

func (r *giveawayRepository) GetParticipant(ctx context.Context, giveawayID, participantID string) (*models.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	participant, ok := r.participants[giveawayID][participantID]
	if !ok {
		return nil, repository.ErrParticipantNotFound
	}
	p := *participant
	return &p, nil
}

func (r *giveawayRepository) Participants(ctx context.Context, giveawayID string) ([]*models.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.giveaways[giveawayID]; !ok {
		return nil, repository.ErrGiveawayNotFound
	}

	out := make([]*models.Participant, 0, len(r.participants[giveawayID]))
	for _, participant := range r.participants[giveawayID] {
		p := *participant
		out = append(out, &p)
	}
	return out, nil
}

func (r *giveawayRepository) ParticipantCount(ctx context.Context, giveawayID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants[giveawayID]), nil
}

func (r *giveawayRepository) FindParticipantByIdentity(ctx context.Context, giveawayID, name, fingerprint string) (*models.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := strings.ToLower(strings.TrimSpace(name))
	for _, participant := range r.participants[giveawayID] {
		if strings.ToLower(strings.TrimSpace(participant.Name)) == want &&
			participant.DeviceFingerprint == fingerprint {
			p := *participant
			return &p, nil
		}
	}
	return nil, repository.ErrParticipantNotFound
}

func (r *giveawayRepository) CreditReferral(ctx context.Context, giveawayID, participantID, attributionKey string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	participant, ok := r.participants[giveawayID][participantID]
	if !ok {
		return false, repository.ErrParticipantNotFound
	}

	keys := r.referrals[giveawayID][participantID]
	for _, key := range keys {
		if key == attributionKey {
			return false, nil
		}
	}

	// ref_count mirrors the credited key set size; both change together
	// under the write lock.
	r.referrals[giveawayID][participantID] = append(keys, attributionKey)
	participant.RefCount++

	if err := r.store.Save(participantsFile, r.participants); err != nil {
		return false, err
	}
	if err := r.store.Save(referralsFile, r.referrals); err != nil {
		return false, err
	}
	return true, nil
}

func (r *giveawayRepository) TotalReferrals(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, byParticipant := range r.referrals {
		for _, keys := range byParticipant {
			total += len(keys)
		}
	}
	return total, nil
}
