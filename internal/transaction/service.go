package transaction

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/y1kuo/liveboard/internal/event"
)

const defaultLimit = 100

const (
	TypeGift      = "gift"
	TypeGuard     = "guard"
	TypeSuperChat = "super_chat"
)

// Transaction is the display-level projection shared by the three monetary
// event kinds. Price is in yuan regardless of the source kind's storage
// scale.
type Transaction struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Uname      string  `json:"uname"`
	Uface      string  `json:"uface"`
	Content    string  `json:"content"`
	Price      float64 `json:"price"`
	Ts         int64   `json:"ts"`
	Icon       string  `json:"icon,omitempty"`
	GuardLevel int     `json:"guardLevel,omitempty"`
}

type Service struct {
	repo *event.Repo
}

func NewService(repo *event.Repo) *Service {
	return &Service{repo: repo}
}

func guardLevelName(level int) string {
	switch level {
	case 1:
		return "总督"
	case 2:
		return "提督"
	default:
		return "舰长"
	}
}

func FromGift(g event.Gift) Transaction {
	return Transaction{
		ID:      fmt.Sprintf("gift_%d", g.ID),
		Type:    TypeGift,
		Uname:   g.Uname,
		Uface:   g.Uface,
		Content: fmt.Sprintf("%s x%d", g.GiftName, g.GiftNum),
		Price:   float64(g.RPrice*g.GiftNum) / 1000,
		Ts:      g.Ts,
		Icon:    g.GiftIcon,
	}
}

func FromGuard(g event.Guard) Transaction {
	content := strings.TrimRight(fmt.Sprintf("%s x%d %s", guardLevelName(g.GuardLevel), g.GuardNum, g.GuardUnit), " ")
	return Transaction{
		ID:         fmt.Sprintf("guard_%d", g.ID),
		Type:       TypeGuard,
		Uname:      g.Uname,
		Uface:      g.Uface,
		Content:    content,
		Price:      float64(g.Price) / 1000,
		Ts:         g.Ts,
		GuardLevel: g.GuardLevel,
	}
}

func FromSuperChat(sc event.SuperChat) Transaction {
	return Transaction{
		ID:      fmt.Sprintf("sc_%d", sc.ID),
		Type:    TypeSuperChat,
		Uname:   sc.Uname,
		Uface:   sc.Uface,
		Content: sc.Message,
		Price:   float64(sc.RMB),
		Ts:      sc.Ts,
	}
}

// Unified merges the most recent gift, guard and super-chat rows into one
// time-sorted feed. Each kind is limited independently before the merge, so
// a high-volume kind can be under-represented relative to the true top-limit
// set; the discovery UI accepts that trade-off.
func (s *Service) Unified(ctx context.Context, roomID int64, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	var (
		gifts  []event.Gift
		guards []event.Guard
		scs    []event.SuperChat
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		gifts, err = s.repo.RecentGifts(gctx, roomID, 0, 0, limit)
		return err
	})
	g.Go(func() error {
		var err error
		guards, err = s.repo.RecentGuards(gctx, roomID, 0, 0, limit)
		return err
	})
	g.Go(func() error {
		var err error
		scs, err = s.repo.RecentSuperChats(gctx, roomID, 0, 0, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]Transaction, 0, len(gifts)+len(guards)+len(scs))
	for _, row := range gifts {
		all = append(all, FromGift(row))
	}
	for _, row := range guards {
		all = append(all, FromGuard(row))
	}
	for _, row := range scs {
		all = append(all, FromSuperChat(row))
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Ts > all[j].Ts })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
