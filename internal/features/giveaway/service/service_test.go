package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "luminora-backend/internal/common/errors"
	"luminora-backend/internal/features/giveaway/avatar"
	"luminora-backend/internal/features/giveaway/models/dto"
	"luminora-backend/internal/features/giveaway/repository"
	repofilestore "luminora-backend/internal/features/giveaway/repository/filestore"
	"luminora-backend/internal/platform/filestore"
)

const testBaseURL = "http://localhost:8080"

func newTestService(t *testing.T) (GiveawayService, repository.GiveawayRepository) {
	t.Helper()

	store, err := filestore.Open(t.TempDir())
	require.NoError(t, err)
	repo, err := repofilestore.New(store)
	require.NoError(t, err)

	avatars, err := avatar.NewSaver(t.TempDir(), 5*1024*1024, testBaseURL)
	require.NoError(t, err)

	return NewGiveawayService(repo, avatars, testBaseURL), repo
}

func validCreateRequest() *dto.GiveawayCreateRequest {
	return &dto.GiveawayCreateRequest{
		Title:      "iPhone 16 Pro Giveaway",
		Host:       "Tech Channel",
		Phone:      "+1 (555) 123-4567",
		ChannelURL: "https://t.me/techchannel",
		EndTime:    time.Now().Add(time.Hour).UnixMilli(),
	}
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected an application error, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*dto.GiveawayCreateRequest)
	}{
		{"empty title", func(r *dto.GiveawayCreateRequest) { r.Title = "  " }},
		{"empty host", func(r *dto.GiveawayCreateRequest) { r.Host = "" }},
		{"bad phone", func(r *dto.GiveawayCreateRequest) { r.Phone = "12345" }},
		{"relative channel url", func(r *dto.GiveawayCreateRequest) { r.ChannelURL = "t.me/channel" }},
		{"end time in the past", func(r *dto.GiveawayCreateRequest) { r.EndTime = time.Now().Add(-time.Minute).UnixMilli() }},
		{"end time now", func(r *dto.GiveawayCreateRequest) { r.EndTime = time.Now().UnixMilli() }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(req)
			_, err := svc.Create(ctx, req, "203.0.113.1")
			requireCode(t, err, apperrors.ErrCodeValidation)
		})
	}
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreateRequest(), "203.0.113.1")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	detail, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "iPhone 16 Pro Giveaway", detail.Title)
	assert.False(t, detail.IsEnded)
	assert.Zero(t, detail.ParticipantCount)
	assert.Nil(t, detail.Winner, "winner is only exposed once the giveaway has ended")

	_, err = svc.GetByID(ctx, "missing")
	requireCode(t, err, apperrors.ErrCodeGiveawayNotFound)
}

func TestJoin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreateRequest(), "203.0.113.1")
	require.NoError(t, err)

	resp, err := svc.Join(ctx, id, &JoinInput{Name: "Alice", IP: "198.51.100.7", Fingerprint: "fp-alice"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.ParticipantID)
	assert.Equal(t, testBaseURL+"/g/"+id+"?ref="+resp.ParticipantID, resp.RefLink)
	assert.Contains(t, resp.Avatar, "dicebear", "no upload means a stock avatar")

	_, err = svc.Join(ctx, "missing", &JoinInput{Name: "Alice", Fingerprint: "fp-alice"})
	requireCode(t, err, apperrors.ErrCodeGiveawayNotFound)

	_, err = svc.Join(ctx, id, &JoinInput{Name: "A", Fingerprint: "fp-short"})
	requireCode(t, err, apperrors.ErrCodeValidation)
}

func TestJoinRejectsDuplicateIdentity(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreateRequest(), "203.0.113.1")
	require.NoError(t, err)

	_, err = svc.Join(ctx, id, &JoinInput{Name: "Alice", Fingerprint: "fp-1"})
	require.NoError(t, err)

	// Same device, same name up to case and whitespace.
	_, err = svc.Join(ctx, id, &JoinInput{Name: "  ALICE ", Fingerprint: "fp-1"})
	requireCode(t, err, apperrors.ErrCodeConflict)

	// Different device with the same name is a different participant.
	_, err = svc.Join(ctx, id, &JoinInput{Name: "Alice", Fingerprint: "fp-2"})
	require.NoError(t, err)

	// Same device with a different name is a different participant.
	_, err = svc.Join(ctx, id, &JoinInput{Name: "Bob", Fingerprint: "fp-1"})
	require.NoError(t, err)
}

func TestJoinEndedGiveaway(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.EndTime = time.Now().Add(30 * time.Millisecond).UnixMilli()
	id, err := svc.Create(ctx, req, "203.0.113.1")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = svc.Join(ctx, id, &JoinInput{Name: "Latecomer", Fingerprint: "fp-late"})
	requireCode(t, err, apperrors.ErrCodeGiveawayEnded)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreateRequest(), "203.0.113.1")
	require.NoError(t, err)

	err = svc.Delete(ctx, id, "198.51.100.7")
	requireCode(t, err, apperrors.ErrCodeForbidden)

	require.NoError(t, svc.Delete(ctx, id, "203.0.113.1"))

	_, err = svc.GetByID(ctx, id)
	requireCode(t, err, apperrors.ErrCodeGiveawayNotFound)

	err = svc.Delete(ctx, id, "203.0.113.1")
	requireCode(t, err, apperrors.ErrCodeGiveawayNotFound)
}

func TestVisitUnknownGiveaway(t *testing.T) {
	svc, _ := newTestService(t)

	outcome, err := svc.Visit(context.Background(), "missing", "", "1.2.3.4", "fp")
	require.NoError(t, err)
	assert.Equal(t, VisitNotFound, outcome.Status)
}

func TestVisitCreditsReferrerOncePerKey(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreateRequest(), "203.0.113.1")
	require.NoError(t, err)
	joined, err := svc.Join(ctx, id, &JoinInput{Name: "Alice", Fingerprint: "fp-alice"})
	require.NoError(t, err)

	outcome, err := svc.Visit(ctx, id, joined.ParticipantID, "198.51.100.7", "fp-visitor")
	require.NoError(t, err)
	assert.Equal(t, VisitRedirect, outcome.Status)
	assert.True(t, outcome.Credited)

	// The same visitor again changes nothing.
	outcome, err = svc.Visit(ctx, id, joined.ParticipantID, "198.51.100.7", "fp-visitor")
	require.NoError(t, err)
	assert.Equal(t, VisitRedirect, outcome.Status)
	assert.False(t, outcome.Credited)

	// A different device on the same IP is a new attribution key.
	outcome, err = svc.Visit(ctx, id, joined.ParticipantID, "198.51.100.7", "fp-other")
	require.NoError(t, err)
	assert.True(t, outcome.Credited)

	p, err := repo.GetParticipant(ctx, id, joined.ParticipantID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.RefCount)
}

func TestVisitWithoutOrUnknownReferrer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreateRequest(), "203.0.113.1")
	require.NoError(t, err)

	outcome, err := svc.Visit(ctx, id, "", "1.2.3.4", "fp")
	require.NoError(t, err)
	assert.Equal(t, VisitRedirect, outcome.Status)
	assert.False(t, outcome.Credited)

	// A fabricated referrer id still redirects without crediting.
	outcome, err = svc.Visit(ctx, id, "no-such-participant", "1.2.3.4", "fp")
	require.NoError(t, err)
	assert.Equal(t, VisitRedirect, outcome.Status)
	assert.False(t, outcome.Credited)
}

func TestVisitEndedGiveawayShowsWinnerWithoutCrediting(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.EndTime = time.Now().Add(100 * time.Millisecond).UnixMilli()
	id, err := svc.Create(ctx, req, "203.0.113.1")
	require.NoError(t, err)

	alice, err := svc.Join(ctx, id, &JoinInput{Name: "Alice", Fingerprint: "fp-alice"})
	require.NoError(t, err)
	bob, err := svc.Join(ctx, id, &JoinInput{Name: "Bob", Fingerprint: "fp-bob"})
	require.NoError(t, err)

	_, err = svc.Visit(ctx, id, bob.ParticipantID, "198.51.100.7", "fp-v1")
	require.NoError(t, err)

	time.Sleep(150 * time.Millisecond)

	outcome, err := svc.Visit(ctx, id, alice.ParticipantID, "198.51.100.8", "fp-v2")
	require.NoError(t, err)
	assert.Equal(t, VisitEnded, outcome.Status)
	assert.False(t, outcome.Credited)
	require.NotNil(t, outcome.Winner)
	assert.Equal(t, bob.ParticipantID, outcome.Winner.ID)

	// The visit after the end never credited anyone.
	p, err := repo.GetParticipant(ctx, id, alice.ParticipantID)
	require.NoError(t, err)
	assert.Zero(t, p.RefCount)
}

func TestCountdown(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.EndTime = time.Now().Add(100 * time.Millisecond).UnixMilli()
	id, err := svc.Create(ctx, req, "203.0.113.1")
	require.NoError(t, err)

	countdown, err := svc.Countdown(ctx, id)
	require.NoError(t, err)
	assert.False(t, countdown.IsEnded)
	assert.Greater(t, countdown.Remaining, int64(0))

	time.Sleep(150 * time.Millisecond)

	countdown, err = svc.Countdown(ctx, id)
	require.NoError(t, err)
	assert.True(t, countdown.IsEnded)
	assert.Zero(t, countdown.Remaining)

	_, err = svc.Countdown(ctx, "missing")
	requireCode(t, err, apperrors.ErrCodeGiveawayNotFound)
}

func TestLeaderboardOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreateRequest(), "203.0.113.1")
	require.NoError(t, err)

	alice, err := svc.Join(ctx, id, &JoinInput{Name: "Alice", Fingerprint: "fp-alice"})
	require.NoError(t, err)
	bob, err := svc.Join(ctx, id, &JoinInput{Name: "Bob", Fingerprint: "fp-bob"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = svc.Visit(ctx, id, bob.ParticipantID, "198.51.100.7", fmt.Sprintf("fp-v%d", i))
		require.NoError(t, err)
	}
	_, err = svc.Visit(ctx, id, alice.ParticipantID, "198.51.100.7", "fp-va")
	require.NoError(t, err)

	board, err := svc.Leaderboard(ctx, id)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, bob.ParticipantID, board[0].ID)
	assert.Equal(t, 2, board[0].RefCount)
	assert.Equal(t, alice.ParticipantID, board[1].ID)

	_, err = svc.Leaderboard(ctx, "missing")
	requireCode(t, err, apperrors.ErrCodeGiveawayNotFound)
}

func TestGlobalLeaderboardSpansGiveaways(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validCreateRequest(), "203.0.113.1")
	require.NoError(t, err)
	second, err := svc.Create(ctx, validCreateRequest(), "203.0.113.2")
	require.NoError(t, err)

	alice, err := svc.Join(ctx, first, &JoinInput{Name: "Alice", Fingerprint: "fp-alice"})
	require.NoError(t, err)
	bob, err := svc.Join(ctx, second, &JoinInput{Name: "Bob", Fingerprint: "fp-bob"})
	require.NoError(t, err)

	_, err = svc.Visit(ctx, second, bob.ParticipantID, "198.51.100.7", "fp-v1")
	require.NoError(t, err)

	entries, err := svc.GlobalLeaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, bob.ParticipantID, entries[0].ID)
	assert.Equal(t, second, entries[0].GiveawayID)
	assert.Equal(t, alice.ParticipantID, entries[1].ID)
}

func TestStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	active, err := svc.Create(ctx, validCreateRequest(), "203.0.113.1")
	require.NoError(t, err)

	endedReq := validCreateRequest()
	endedReq.EndTime = time.Now().Add(30 * time.Millisecond).UnixMilli()
	_, err = svc.Create(ctx, endedReq, "203.0.113.1")
	require.NoError(t, err)

	alice, err := svc.Join(ctx, active, &JoinInput{Name: "Alice", Fingerprint: "fp-alice"})
	require.NoError(t, err)
	_, err = svc.Visit(ctx, active, alice.ParticipantID, "198.51.100.7", "fp-v1")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalGiveaways)
	assert.Equal(t, 1, stats.ActiveGiveaways)
	assert.Equal(t, 1, stats.EndedGiveaways)
	assert.Equal(t, 1, stats.TotalParticipants)
	assert.Equal(t, 1, stats.TotalReferrals)
}
