package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWinner(t *testing.T) {
	a := &Participant{ID: "a", Name: "A", RefCount: 3, JoinedAt: 100}
	b := &Participant{ID: "b", Name: "B", RefCount: 5, JoinedAt: 300}
	c := &Participant{ID: "c", Name: "C", RefCount: 5, JoinedAt: 200}

	winner := Winner([]*Participant{a, b, c})
	assert.Equal(t, "c", winner.ID, "ties must break by earliest join")

	assert.Nil(t, Winner(nil))
	assert.Nil(t, Winner([]*Participant{}))
}

func TestWinnerIsDeterministic(t *testing.T) {
	a := &Participant{ID: "a", RefCount: 2, JoinedAt: 100}
	b := &Participant{ID: "b", RefCount: 2, JoinedAt: 50}

	// Same inputs in any order must produce the same winner.
	assert.Equal(t, "b", Winner([]*Participant{a, b}).ID)
	assert.Equal(t, "b", Winner([]*Participant{b, a}).ID)
}

func TestSortByReferrals(t *testing.T) {
	a := &Participant{ID: "a", RefCount: 1, JoinedAt: 100}
	b := &Participant{ID: "b", RefCount: 4, JoinedAt: 300}
	c := &Participant{ID: "c", RefCount: 4, JoinedAt: 200}

	participants := []*Participant{a, b, c}
	SortByReferrals(participants)

	assert.Equal(t, []string{"c", "b", "a"}, []string{participants[0].ID, participants[1].ID, participants[2].ID})
}

func TestGiveawayIsEnded(t *testing.T) {
	now := time.Now()
	g := &Giveaway{EndTime: now.UnixMilli() + 1}

	assert.False(t, g.IsEnded(now))
	assert.True(t, g.IsEnded(now.Add(5*time.Millisecond)))
	assert.Equal(t, int64(0), g.Remaining(now.Add(time.Second)))
	assert.Greater(t, g.Remaining(now.Add(-time.Second)), int64(0))
}
