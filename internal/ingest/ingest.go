package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/y1kuo/liveboard/internal/event"
)

// Envelope is the collector's wire format: a kind tag plus the raw row.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	TypeDanmaku    = "danmaku"
	TypeGift       = "gift"
	TypeGuard      = "guard"
	TypeSuperChat  = "super_chat"
	TypeLiveMarker = "live"
)

// Handler decodes collector envelopes and writes them into the event store.
type Handler struct {
	repo *event.Repo
}

func NewHandler(repo *event.Repo) *Handler {
	return &Handler{repo: repo}
}

// Handle persists one envelope. Unknown kinds and malformed payloads return
// an error; callers dead-letter those instead of requeueing.
func (h *Handler) Handle(ctx context.Context, body []byte) error {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Type {
	case TypeDanmaku:
		var d event.Danmaku
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return fmt.Errorf("decode danmaku: %w", err)
		}
		d.ID = 0
		d.MsgID = ensureMsgID(d.MsgID)
		return h.repo.InsertDanmaku(ctx, &d)

	case TypeGift:
		var g event.Gift
		if err := json.Unmarshal(env.Data, &g); err != nil {
			return fmt.Errorf("decode gift: %w", err)
		}
		g.ID = 0
		g.MsgID = ensureMsgID(g.MsgID)
		if g.GiftNum <= 0 {
			g.GiftNum = 1
		}
		return h.repo.InsertGift(ctx, &g)

	case TypeGuard:
		var g event.Guard
		if err := json.Unmarshal(env.Data, &g); err != nil {
			return fmt.Errorf("decode guard: %w", err)
		}
		g.ID = 0
		g.MsgID = ensureMsgID(g.MsgID)
		if g.GuardNum <= 0 {
			g.GuardNum = 1
		}
		return h.repo.InsertGuard(ctx, &g)

	case TypeSuperChat:
		var sc event.SuperChat
		if err := json.Unmarshal(env.Data, &sc); err != nil {
			return fmt.Errorf("decode super_chat: %w", err)
		}
		sc.ID = 0
		sc.MsgID = ensureMsgID(sc.MsgID)
		return h.repo.InsertSuperChat(ctx, &sc)

	case TypeLiveMarker:
		var m event.LiveMarker
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return fmt.Errorf("decode live marker: %w", err)
		}
		m.ID = 0
		return h.repo.InsertMarker(ctx, &m)

	default:
		return fmt.Errorf("unknown event type %q", env.Type)
	}
}

// ensureMsgID backfills rows that arrive without a platform message id so
// the usual dedup lookups stay usable. ULIDs keep generated ids time-ordered.
func ensureMsgID(id string) string {
	if id != "" {
		return id
	}
	return "gen_" + ulid.Make().String()
}
