package livesession

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/y1kuo/liveboard/internal/event"
)

const defaultSessionLimit = 50

// Session is a reconstructed broadcast interval with attributed revenue.
// EndTs is nil while the stream is still live; Duration is whole minutes and
// stays 0 for an open session.
type Session struct {
	ID          uint64  `json:"id"`
	StartTs     int64   `json:"startTs"`
	EndTs       *int64  `json:"endTs"`
	Duration    int64   `json:"duration"`
	Title       string  `json:"title"`
	AreaName    string  `json:"areaName"`
	GiftIncome  float64 `json:"giftIncome"`
	GuardIncome float64 `json:"guardIncome"`
	SCIncome    float64 `json:"scIncome"`
	TotalIncome float64 `json:"totalIncome"`
}

type Service struct {
	repo *event.Repo

	// now is swappable so tests can pin the effective end of open sessions.
	now func() time.Time
}

func NewService(repo *event.Repo) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Sessions rebuilds discrete broadcast sessions from the start/stop marker
// log and attributes the revenue accrued during each, newest first.
//
// Pairing is nearest-following-stop: each start takes the first stop after
// it, even when other starts sit in between. Reconnect storms can therefore
// fold several starts into one closed session; that matches the collector's
// historical behavior and is kept as-is. A stop with no unpaired start before
// it is dropped silently.
func (s *Service) Sessions(ctx context.Context, roomID, start, end int64, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = defaultSessionLimit
	}

	// Overfetch so that enough complete pairs survive pairing.
	markers, err := s.repo.RecentMarkers(ctx, roomID, start, end, 2*limit)
	if err != nil {
		return nil, err
	}
	sort.Slice(markers, func(i, j int) bool { return markers[i].Ts < markers[j].Ts })

	sessions := pair(markers)

	// Most recent first, capped.
	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}
	if len(sessions) > limit {
		sessions = sessions[:limit]
	}

	nowMs := s.now().UnixMilli()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range sessions {
		sess := &sessions[i]
		g.Go(func() error {
			return s.attributeRevenue(gctx, roomID, sess, nowMs)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func pair(markers []event.LiveMarker) []Session {
	var sessions []Session
	used := make([]bool, len(markers))
	for i, m := range markers {
		if !m.IsStart {
			continue
		}
		sess := Session{
			ID:       m.ID,
			StartTs:  m.Ts,
			Title:    m.Title,
			AreaName: m.AreaName,
		}
		for j := i + 1; j < len(markers); j++ {
			if markers[j].IsStart || used[j] {
				continue
			}
			used[j] = true
			endTs := markers[j].Ts
			sess.EndTs = &endTs
			sess.Duration = int64(math.Round(float64(endTs-m.Ts) / 60000))
			break
		}
		sessions = append(sessions, sess)
	}
	return sessions
}

func (s *Service) attributeRevenue(ctx context.Context, roomID int64, sess *Session, nowMs int64) error {
	effectiveEnd := nowMs
	if sess.EndTs != nil {
		effectiveEnd = *sess.EndTs
	}

	_, giftVal, err := s.repo.GiftAggregate(ctx, roomID, sess.StartTs, effectiveEnd)
	if err != nil {
		return err
	}
	_, guardVal, err := s.repo.GuardAggregate(ctx, roomID, sess.StartTs, effectiveEnd)
	if err != nil {
		return err
	}
	_, scVal, err := s.repo.SuperChatAggregate(ctx, roomID, sess.StartTs, effectiveEnd)
	if err != nil {
		return err
	}

	sess.GiftIncome = float64(giftVal) / 1000
	sess.GuardIncome = float64(guardVal) / 1000
	sess.SCIncome = float64(scVal)
	sess.TotalIncome = sess.GiftIncome + sess.GuardIncome + sess.SCIncome
	return nil
}
