// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"math"
	"sort"
	"time"
)

const day = 24 * time.Hour

// TotalMinutes sums the whole minutes of every closed session.
//
// Each session contributes floor(duration / 1 minute); partial minutes are
// dropped per session, not across the sum. Open sessions contribute nothing.
func TotalMinutes(sessions []*Session) int64 {
	var total int64
	for _, session := range sessions {
		if session.IsOpen() {
			continue
		}
		total += int64(session.Duration() / time.Minute)
	}
	return total
}

/*
Intermittency returns the average number of whole days between consecutive
closed sessions, rounded to two decimals.

Sessions are ordered by StartedAt. Each gap is the floored day count between
two consecutive start times, so two sessions on the same day yield a zero gap
that still counts toward the mean. Fewer than two closed sessions yield 0.
*/
func Intermittency(sessions []*Session) float64 {
	closed := make([]*Session, 0, len(sessions))
	for _, session := range sessions {
		if !session.IsOpen() {
			closed = append(closed, session)
		}
	}

	if len(closed) < 2 {
		return 0
	}

	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].StartedAt.Before(closed[j].StartedAt)
	})

	var gapDays int64
	for i := 1; i < len(closed); i++ {
		gapDays += int64(closed[i].StartedAt.Sub(closed[i-1].StartedAt) / day)
	}

	return round2(float64(gapDays) / float64(len(closed)-1))
}

// Hours converts minutes to hours rounded to two decimals.
func Hours(minutes int64) float64 {
	return round2(float64(minutes) / 60)
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
