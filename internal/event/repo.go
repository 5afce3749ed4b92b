package event

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// Repo is the read/write boundary over the event tables. All analytics
// engines consume it read-only; the ingest worker is the only writer.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// ranged applies the room filter and the inclusive [start, end] bounds.
// A zero bound means unbounded on that side.
func ranged(q *gorm.DB, roomID, start, end int64) *gorm.DB {
	q = q.Where("room_id = ?", roomID)
	if start > 0 {
		q = q.Where("ts >= ?", start)
	}
	if end > 0 {
		q = q.Where("ts <= ?", end)
	}
	return q
}

func (r *Repo) CountDanmaku(ctx context.Context, roomID, start, end int64) (int64, error) {
	var n int64
	err := ranged(r.db.WithContext(ctx).Model(&Danmaku{}), roomID, start, end).Count(&n).Error
	return n, err
}

type kindAggregate struct {
	Count int64
	Total int64
}

// GiftAggregate returns the row count and the summed real value
// (r_price * gift_num, smallest currency unit) for the range.
func (r *Repo) GiftAggregate(ctx context.Context, roomID, start, end int64) (count, total int64, err error) {
	var agg kindAggregate
	err = ranged(r.db.WithContext(ctx).Model(&Gift{}), roomID, start, end).
		Select("COUNT(*) AS count, COALESCE(SUM(r_price * gift_num), 0) AS total").
		Scan(&agg).Error
	return agg.Count, agg.Total, err
}

// GuardAggregate returns the row count and summed price (smallest unit).
func (r *Repo) GuardAggregate(ctx context.Context, roomID, start, end int64) (count, total int64, err error) {
	var agg kindAggregate
	err = ranged(r.db.WithContext(ctx).Model(&Guard{}), roomID, start, end).
		Select("COUNT(*) AS count, COALESCE(SUM(price), 0) AS total").
		Scan(&agg).Error
	return agg.Count, agg.Total, err
}

// SuperChatAggregate returns the row count and summed rmb (whole yuan).
func (r *Repo) SuperChatAggregate(ctx context.Context, roomID, start, end int64) (count, total int64, err error) {
	var agg kindAggregate
	err = ranged(r.db.WithContext(ctx).Model(&SuperChat{}), roomID, start, end).
		Select("COUNT(*) AS count, COALESCE(SUM(rmb), 0) AS total").
		Scan(&agg).Error
	return agg.Count, agg.Total, err
}

type DanmakuUserRow struct {
	Uname string `json:"uname"`
	Count int64  `json:"count"`
	Uface string `json:"uface"`
}

// TopDanmakuUsers groups chat messages by sender and returns the most
// talkative senders first. The avatar is any one observed for the sender.
func (r *Repo) TopDanmakuUsers(ctx context.Context, roomID, start, end int64, limit int) ([]DanmakuUserRow, error) {
	var rows []DanmakuUserRow
	err := ranged(r.db.WithContext(ctx).Model(&Danmaku{}), roomID, start, end).
		Select("uname, COUNT(*) AS count, MAX(uface) AS uface").
		Group("uname").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

type ContributorRow struct {
	Uname    string `json:"uname"`
	TotalVal int64  `json:"total_val"` // smallest currency unit
	Uface    string `json:"uface"`
}

// TopContributors unions gift value, guard price and super-chat price
// (scaled x1000 to the smallest unit) per sender and returns the biggest
// spenders first.
func (r *Repo) TopContributors(ctx context.Context, roomID, start, end int64, limit int) ([]ContributorRow, error) {
	const q = `
SELECT uname, SUM(val) AS total_val, MAX(uface) AS uface
FROM (
    SELECT uname, (r_price * gift_num) AS val, uface
    FROM gift
    WHERE room_id = ? AND ts >= ? AND ts <= ?
    UNION ALL
    SELECT uname, price AS val, uface
    FROM guard
    WHERE room_id = ? AND ts >= ? AND ts <= ?
    UNION ALL
    SELECT uname, (rmb * 1000) AS val, uface
    FROM super_chat
    WHERE room_id = ? AND ts >= ? AND ts <= ?
) combined
GROUP BY uname
ORDER BY total_val DESC
LIMIT ?`
	var rows []ContributorRow
	err := r.db.WithContext(ctx).
		Raw(q, roomID, start, end, roomID, start, end, roomID, start, end, limit).
		Scan(&rows).Error
	return rows, err
}

type HourBucket struct {
	Bucket int64
	Count  int64
}

// DanmakuTrend buckets chat volume per hour since `since` (ms). Buckets are
// hour indexes (ts/3600000) so the SQL stays portable across sqlite and mysql.
func (r *Repo) DanmakuTrend(ctx context.Context, roomID, since int64) ([]HourBucket, error) {
	var rows []HourBucket
	err := r.db.WithContext(ctx).Model(&Danmaku{}).
		Select("ts / 3600000 AS bucket, COUNT(*) AS count").
		Where("room_id = ? AND ts > ?", roomID, since).
		Group("bucket").
		Order("bucket ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *Repo) RecentDanmaku(ctx context.Context, roomID, start, end int64, limit int) ([]Danmaku, error) {
	var rows []Danmaku
	err := ranged(r.db.WithContext(ctx), roomID, start, end).
		Order("ts DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *Repo) RecentGifts(ctx context.Context, roomID, start, end int64, limit int) ([]Gift, error) {
	var rows []Gift
	err := ranged(r.db.WithContext(ctx), roomID, start, end).
		Order("ts DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *Repo) RecentGuards(ctx context.Context, roomID, start, end int64, limit int) ([]Guard, error) {
	var rows []Guard
	err := ranged(r.db.WithContext(ctx), roomID, start, end).
		Order("ts DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *Repo) RecentSuperChats(ctx context.Context, roomID, start, end int64, limit int) ([]SuperChat, error) {
	var rows []SuperChat
	err := ranged(r.db.WithContext(ctx), roomID, start, end).
		Order("ts DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// BlindboxGifts fetches the most recent gift rows whose name is in `names`,
// optionally narrowed by a case-insensitive substring match on the sender.
func (r *Repo) BlindboxGifts(ctx context.Context, roomID int64, names []string, unameFilter string, start, end int64, limit int) ([]Gift, error) {
	q := ranged(r.db.WithContext(ctx), roomID, start, end).
		Where("gift_name IN ?", names)
	if f := strings.TrimSpace(unameFilter); f != "" {
		q = q.Where("LOWER(uname) LIKE ?", "%"+strings.ToLower(f)+"%")
	}
	var rows []Gift
	err := q.Order("ts DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// RecentMarkers returns live start/stop markers, newest first.
func (r *Repo) RecentMarkers(ctx context.Context, roomID, start, end int64, limit int) ([]LiveMarker, error) {
	var rows []LiveMarker
	err := ranged(r.db.WithContext(ctx), roomID, start, end).
		Order("ts DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *Repo) InsertDanmaku(ctx context.Context, d *Danmaku) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *Repo) InsertGift(ctx context.Context, g *Gift) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *Repo) InsertGuard(ctx context.Context, g *Guard) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *Repo) InsertSuperChat(ctx context.Context, sc *SuperChat) error {
	return r.db.WithContext(ctx).Create(sc).Error
}

func (r *Repo) InsertMarker(ctx context.Context, m *LiveMarker) error {
	return r.db.WithContext(ctx).Create(m).Error
}
