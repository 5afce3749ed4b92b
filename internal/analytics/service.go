package analytics

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/y1kuo/liveboard/internal/event"
)

// DashboardStats are the headline numbers for a room over a time window.
// TotalIncome is in yuan: gift and guard sums are stored in 1/1000 yuan and
// converted here; super-chat rmb is already whole yuan.
type DashboardStats struct {
	DanmakuCount int64   `json:"danmakuCount"`
	GiftCount    int64   `json:"giftCount"`
	GuardCount   int64   `json:"guardCount"`
	SCCount      int64   `json:"scCount"`
	TotalIncome  float64 `json:"totalIncome"`
}

type TopDanmakuUser struct {
	Uname string `json:"uname"`
	Count int64  `json:"count"`
	Uface string `json:"uface"`
}

type TopGiftUser struct {
	Uname string  `json:"uname"`
	Total float64 `json:"total"` // yuan
	Uface string  `json:"uface"`
}

type TrendPoint struct {
	Time  string `json:"time"`
	Count int64  `json:"count"`
}

const topUserLimit = 3

type Service struct {
	repo *event.Repo
}

func NewService(repo *event.Repo) *Service {
	return &Service{repo: repo}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Stats computes the per-kind counts and the combined income for
// [start, end], both bounds inclusive. The four sub-aggregates carry no
// ordering dependency and are issued concurrently; any failure fails the
// whole call.
func (s *Service) Stats(ctx context.Context, roomID, start, end int64) (DashboardStats, error) {
	var (
		danmakuCount           int64
		giftCount, giftValue   int64
		guardCount, guardValue int64
		scCount, scValue       int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		danmakuCount, err = s.repo.CountDanmaku(gctx, roomID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		giftCount, giftValue, err = s.repo.GiftAggregate(gctx, roomID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		guardCount, guardValue, err = s.repo.GuardAggregate(gctx, roomID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		scCount, scValue, err = s.repo.SuperChatAggregate(gctx, roomID, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}

	total := float64(giftValue)/1000 + float64(guardValue)/1000 + float64(scValue)

	return DashboardStats{
		DanmakuCount: danmakuCount,
		GiftCount:    giftCount,
		GuardCount:   guardCount,
		SCCount:      scCount,
		TotalIncome:  round2(total),
	}, nil
}

// TopDanmakuUsers returns the three most talkative senders in the window.
func (s *Service) TopDanmakuUsers(ctx context.Context, roomID, start, end int64) ([]TopDanmakuUser, error) {
	rows, err := s.repo.TopDanmakuUsers(ctx, roomID, start, end, topUserLimit)
	if err != nil {
		return nil, err
	}
	out := make([]TopDanmakuUser, 0, len(rows))
	for _, r := range rows {
		out = append(out, TopDanmakuUser{Uname: r.Uname, Count: r.Count, Uface: r.Uface})
	}
	return out, nil
}

// TopGiftUsers returns the three biggest spenders across gifts, guard
// purchases and super-chats, totals converted to yuan.
func (s *Service) TopGiftUsers(ctx context.Context, roomID, start, end int64) ([]TopGiftUser, error) {
	rows, err := s.repo.TopContributors(ctx, roomID, start, end, topUserLimit)
	if err != nil {
		return nil, err
	}
	out := make([]TopGiftUser, 0, len(rows))
	for _, r := range rows {
		out = append(out, TopGiftUser{Uname: r.Uname, Total: float64(r.TotalVal) / 1000, Uface: r.Uface})
	}
	return out, nil
}

// DanmakuTrend buckets the last 24h of chat volume per hour for charting.
func (s *Service) DanmakuTrend(ctx context.Context, roomID int64) ([]TrendPoint, error) {
	since := time.Now().Add(-24 * time.Hour).UnixMilli()
	rows, err := s.repo.DanmakuTrend(ctx, roomID, since)
	if err != nil {
		return nil, err
	}
	out := make([]TrendPoint, 0, len(rows))
	for _, r := range rows {
		hour := time.UnixMilli(r.Bucket * 3600000)
		out = append(out, TrendPoint{Time: hour.Format("15:00"), Count: r.Count})
	}
	return out, nil
}
