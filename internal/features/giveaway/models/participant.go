package models

import "sort"

// Participant is an entrant in exactly one giveaway. RefCount only ever
// grows, by one per newly credited attribution key.
type Participant struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Avatar            string `json:"avatar"`
	RefCount          int    `json:"ref_count"`
	JoinedAt          int64  `json:"joined_at"` // epoch millis
	IP                string `json:"ip"`
	DeviceFingerprint string `json:"device_fingerprint"`
}

// SortByReferrals orders participants by referral count descending,
// breaking ties by earliest join.
func SortByReferrals(participants []*Participant) {
	sort.SliceStable(participants, func(i, j int) bool {
		if participants[i].RefCount != participants[j].RefCount {
			return participants[i].RefCount > participants[j].RefCount
		}
		return participants[i].JoinedAt < participants[j].JoinedAt
	})
}

// Winner returns the leaderboard leader: highest referral count, ties
// broken by earliest join. Nil when there are no participants.
func Winner(participants []*Participant) *Participant {
	var winner *Participant
	for _, p := range participants {
		if winner == nil {
			winner = p
			continue
		}
		if p.RefCount > winner.RefCount ||
			(p.RefCount == winner.RefCount && p.JoinedAt < winner.JoinedAt) {
			winner = p
		}
	}
	return winner
}
