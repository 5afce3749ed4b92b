package transaction

import (
	"context"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/y1kuo/liveboard/internal/event"
)

func openTestRepo(t *testing.T) *event.Repo {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&event.Gift{}, &event.Guard{}, &event.SuperChat{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return event.NewRepo(db)
}

func TestUnified_MergesNewestFirst(t *testing.T) {
	repo := openTestRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	if err := repo.InsertGift(ctx, &event.Gift{RoomID: 1, Uname: "a", GiftName: "辣条", GiftNum: 1, RPrice: 100, Ts: 100}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.InsertGuard(ctx, &event.Guard{RoomID: 1, Uname: "b", GuardLevel: 3, GuardNum: 1, GuardUnit: "月", Price: 138000, Ts: 200}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.InsertSuperChat(ctx, &event.SuperChat{RoomID: 1, Uname: "c", RMB: 30, Message: "加油", Ts: 150}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	txns, err := svc.Unified(ctx, 1, 100)
	if err != nil {
		t.Fatalf("unified: %v", err)
	}
	if len(txns) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txns))
	}
	if txns[0].Type != TypeGuard || txns[1].Type != TypeSuperChat || txns[2].Type != TypeGift {
		t.Fatalf("unexpected order: %s, %s, %s", txns[0].Type, txns[1].Type, txns[2].Type)
	}
	if txns[0].Content != "舰长 x1 月" {
		t.Fatalf("unexpected guard content: %q", txns[0].Content)
	}
	if txns[1].Content != "加油" || txns[1].Price != 30 {
		t.Fatalf("unexpected super chat projection: %+v", txns[1])
	}
}

func TestFromGift_Projection(t *testing.T) {
	txn := FromGift(event.Gift{
		ID:       7,
		Uname:    "a",
		GiftName: "小花花",
		GiftNum:  3,
		RPrice:   1000,
		Ts:       42,
	})
	if txn.ID != "gift_7" {
		t.Fatalf("unexpected id: %q", txn.ID)
	}
	if txn.Price != 3.0 {
		t.Fatalf("expected 3.0 yuan, got %v", txn.Price)
	}
	if txn.Content != "小花花 x3" {
		t.Fatalf("unexpected content: %q", txn.Content)
	}
}

func TestFromGuard_TierNames(t *testing.T) {
	cases := []struct {
		level int
		want  string
	}{
		{1, "总督"},
		{2, "提督"},
		{3, "舰长"},
	}
	for _, tc := range cases {
		txn := FromGuard(event.Guard{ID: 1, GuardLevel: tc.level, GuardNum: 2, GuardUnit: "月", Price: 1000})
		if want := tc.want + " x2 月"; txn.Content != want {
			t.Fatalf("level %d: expected %q, got %q", tc.level, want, txn.Content)
		}
	}
}

func TestUnified_TruncatesToLimit(t *testing.T) {
	repo := openTestRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	for ts := int64(1); ts <= 4; ts++ {
		if err := repo.InsertGift(ctx, &event.Gift{RoomID: 1, Uname: "a", GiftName: "辣条", GiftNum: 1, RPrice: 100, Ts: ts}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if err := repo.InsertSuperChat(ctx, &event.SuperChat{RoomID: 1, Uname: "b", RMB: 30, Message: "x", Ts: 10}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	txns, err := svc.Unified(ctx, 1, 3)
	if err != nil {
		t.Fatalf("unified: %v", err)
	}
	if len(txns) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txns))
	}
	if txns[0].Type != TypeSuperChat {
		t.Fatalf("expected the super chat to lead, got %+v", txns[0])
	}
	if txns[1].Ts != 4 || txns[2].Ts != 3 {
		t.Fatalf("expected gifts at ts 4,3 after truncation, got %d,%d", txns[1].Ts, txns[2].Ts)
	}
}
