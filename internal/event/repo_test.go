package event

import (
	"context"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
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
	if err := db.AutoMigrate(&Danmaku{}, &Gift{}, &Guard{}, &SuperChat{}, &LiveMarker{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestCountDanmaku_InclusiveBounds(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	const T = int64(5000)
	for _, ts := range []int64{T - 1, T, T + 1} {
		if err := repo.InsertDanmaku(ctx, &Danmaku{RoomID: 1, Uname: "a", Msg: "hi", Ts: ts}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	n, err := repo.CountDanmaku(ctx, 1, T, T)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly the ts==T row, got %d", n)
	}

	n, err = repo.CountDanmaku(ctx, 1, T-1, T+1)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows in [T-1, T+1], got %d", n)
	}
}

func TestGiftAggregate_SumsRealValue(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	gifts := []Gift{
		{RoomID: 1, Uname: "a", GiftName: "小花花", GiftNum: 3, RPrice: 1000, Ts: 100},
		{RoomID: 1, Uname: "b", GiftName: "辣条", GiftNum: 10, RPrice: 100, Ts: 200},
		{RoomID: 2, Uname: "c", GiftName: "辣条", GiftNum: 1, RPrice: 100, Ts: 150}, // other room
	}
	for i := range gifts {
		if err := repo.InsertGift(ctx, &gifts[i]); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	count, total, err := repo.GiftAggregate(ctx, 1, 0, 0)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 gifts, got %d", count)
	}
	if want := int64(3*1000 + 10*100); total != want {
		t.Fatalf("expected total %d, got %d", want, total)
	}
}

func TestGiftAggregate_EmptyRangeIsZero(t *testing.T) {
	repo := NewRepo(openTestDB(t))

	count, total, err := repo.GiftAggregate(context.Background(), 42, 1, 2)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if count != 0 || total != 0 {
		t.Fatalf("expected zeros for empty range, got count=%d total=%d", count, total)
	}
}

func TestTopDanmakuUsers_OrdersByCount(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	counts := map[string]int{"alice": 5, "bob": 3, "carol": 7, "dave": 1}
	ts := int64(0)
	for uname, n := range counts {
		for i := 0; i < n; i++ {
			ts++
			if err := repo.InsertDanmaku(ctx, &Danmaku{RoomID: 1, Uname: uname, Uface: "face_" + uname, Msg: "x", Ts: ts}); err != nil {
				t.Fatalf("insert: %v", err)
			}
		}
	}

	rows, err := repo.TopDanmakuUsers(ctx, 1, 0, ts, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Uname != "carol" || rows[0].Count != 7 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Uname != "alice" || rows[2].Uname != "bob" {
		t.Fatalf("unexpected ordering: %+v", rows)
	}
	if rows[0].Uface != "face_carol" {
		t.Fatalf("expected an observed avatar, got %q", rows[0].Uface)
	}
}

func TestTopContributors_UnionsAllKinds(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	// alice: 2000 (gift) + 138000 (guard) = 140000 smallest units
	if err := repo.InsertGift(ctx, &Gift{RoomID: 1, Uname: "alice", GiftNum: 2, RPrice: 1000, Ts: 10}); err != nil {
		t.Fatalf("insert gift: %v", err)
	}
	if err := repo.InsertGuard(ctx, &Guard{RoomID: 1, Uname: "alice", GuardLevel: 3, GuardNum: 1, Price: 138000, Ts: 20}); err != nil {
		t.Fatalf("insert guard: %v", err)
	}
	// bob: 30 yuan super chat = 30000 smallest units
	if err := repo.InsertSuperChat(ctx, &SuperChat{RoomID: 1, Uname: "bob", RMB: 30, Message: "hi", Ts: 30}); err != nil {
		t.Fatalf("insert sc: %v", err)
	}

	rows, err := repo.TopContributors(ctx, 1, 0, 100, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 contributors, got %d", len(rows))
	}
	if rows[0].Uname != "alice" || rows[0].TotalVal != 140000 {
		t.Fatalf("unexpected first contributor: %+v", rows[0])
	}
	if rows[1].Uname != "bob" || rows[1].TotalVal != 30000 {
		t.Fatalf("unexpected second contributor: %+v", rows[1])
	}
}

func TestBlindboxGifts_FiltersAndLimits(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	names := []string{"棉花糖", "电影票"}
	rows := []Gift{
		{RoomID: 1, Uname: "Alice", GiftName: "棉花糖", GiftNum: 1, Ts: 100},
		{RoomID: 1, Uname: "alice", GiftName: "电影票", GiftNum: 1, Ts: 200},
		{RoomID: 1, Uname: "bob", GiftName: "棉花糖", GiftNum: 1, Ts: 300},
		{RoomID: 1, Uname: "alice", GiftName: "小花花", GiftNum: 1, Ts: 400}, // not blind-box
	}
	for i := range rows {
		if err := repo.InsertGift(ctx, &rows[i]); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := repo.BlindboxGifts(ctx, 1, names, "ALI", 0, 0, 10)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 case-insensitive uname matches, got %d", len(got))
	}
	if got[0].Ts != 200 || got[1].Ts != 100 {
		t.Fatalf("expected newest-first order, got ts %d, %d", got[0].Ts, got[1].Ts)
	}

	capped, err := repo.BlindboxGifts(ctx, 1, names, "", 0, 0, 2)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(capped) != 2 || capped[0].Ts != 300 {
		t.Fatalf("expected the 2 most recent rows, got %+v", capped)
	}
}

func TestRecentMarkers_NewestFirst(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	for _, ts := range []int64{100, 300, 200} {
		if err := repo.InsertMarker(ctx, &LiveMarker{RoomID: 1, IsStart: true, Ts: ts}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	rows, err := repo.RecentMarkers(ctx, 1, 0, 0, 2)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 2 || rows[0].Ts != 300 || rows[1].Ts != 200 {
		t.Fatalf("expected [300, 200], got %+v", rows)
	}
}
