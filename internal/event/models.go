package event

import "time"

// Danmaku is a chat message in a room. Ts is milliseconds since epoch,
// as delivered by the collector.
type Danmaku struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID         int64     `gorm:"index:idx_danmaku_room_ts,priority:1;not null" json:"room_id"`
	OpenID         string    `gorm:"type:varchar(64)" json:"open_id"`
	Uname          string    `gorm:"type:varchar(64);index" json:"uname"`
	Uface          string    `gorm:"type:varchar(255)" json:"uface"`
	Msg            string    `gorm:"type:text" json:"msg"`
	MsgID          string    `gorm:"type:varchar(64);index" json:"msg_id"`
	DmType         int       `json:"dm_type"`
	EmojiImgURL    string    `gorm:"type:varchar(255)" json:"emoji_img_url"`
	FansMedalLevel int       `json:"fans_medal_level"`
	FansMedalName  string    `gorm:"type:varchar(32)" json:"fans_medal_name"`
	GuardLevel     int       `json:"guard_level"`
	Ts             int64     `gorm:"index:idx_danmaku_room_ts,priority:2" json:"ts"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Danmaku) TableName() string { return "danmaku" }

// Gift prices are in the smallest currency unit (1/1000 yuan). RPrice is the
// real unit value; the total value of a row is RPrice*GiftNum.
type Gift struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID         int64     `gorm:"index:idx_gift_room_ts,priority:1;not null" json:"room_id"`
	OpenID         string    `gorm:"type:varchar(64)" json:"open_id"`
	Uname          string    `gorm:"type:varchar(64);index" json:"uname"`
	Uface          string    `gorm:"type:varchar(255)" json:"uface"`
	GiftID         int64     `json:"gift_id"`
	GiftName       string    `gorm:"type:varchar(64);index" json:"gift_name"`
	GiftNum        int64     `gorm:"default:1" json:"gift_num"`
	GiftIcon       string    `gorm:"type:varchar(255)" json:"gift_icon"`
	Price          int64     `json:"price"`
	RPrice         int64     `json:"r_price"`
	Paid           int       `json:"paid"`
	FansMedalLevel int       `json:"fans_medal_level"`
	FansMedalName  string    `gorm:"type:varchar(32)" json:"fans_medal_name"`
	GuardLevel     int       `json:"guard_level"`
	MsgID          string    `gorm:"type:varchar(64);index" json:"msg_id"`
	Ts             int64     `gorm:"index:idx_gift_room_ts,priority:2" json:"ts"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Gift) TableName() string { return "gift" }

// Guard levels are inverted: 1 总督, 2 提督, 3 舰长. Price is in the
// smallest currency unit.
type Guard struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID         int64     `gorm:"index:idx_guard_room_ts,priority:1;not null" json:"room_id"`
	OpenID         string    `gorm:"type:varchar(64)" json:"open_id"`
	Uname          string    `gorm:"type:varchar(64);index" json:"uname"`
	Uface          string    `gorm:"type:varchar(255)" json:"uface"`
	GuardLevel     int       `json:"guard_level"`
	GuardNum       int64     `gorm:"default:1" json:"guard_num"`
	GuardUnit      string    `gorm:"type:varchar(16)" json:"guard_unit"`
	Price          int64     `json:"price"`
	FansMedalLevel int       `json:"fans_medal_level"`
	FansMedalName  string    `gorm:"type:varchar(32)" json:"fans_medal_name"`
	MsgID          string    `gorm:"type:varchar(64);index" json:"msg_id"`
	Ts             int64     `gorm:"index:idx_guard_room_ts,priority:2" json:"ts"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Guard) TableName() string { return "guard" }

// SuperChat RMB is in whole yuan, unlike gift/guard pricing. The scale
// difference comes from the upstream platform and must not be normalized
// in storage.
type SuperChat struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID         int64     `gorm:"index:idx_sc_room_ts,priority:1;not null" json:"room_id"`
	OpenID         string    `gorm:"type:varchar(64)" json:"open_id"`
	Uname          string    `gorm:"type:varchar(64);index" json:"uname"`
	Uface          string    `gorm:"type:varchar(255)" json:"uface"`
	MessageID      int64     `json:"message_id"`
	Message        string    `gorm:"type:text" json:"message"`
	RMB            int64     `gorm:"column:rmb" json:"rmb"`
	StartTime      int64     `json:"start_time"`
	EndTime        int64     `json:"end_time"`
	GuardLevel     int       `json:"guard_level"`
	FansMedalLevel int       `json:"fans_medal_level"`
	FansMedalName  string    `gorm:"type:varchar(32)" json:"fans_medal_name"`
	MsgID          string    `gorm:"type:varchar(64);index" json:"msg_id"`
	Ts             int64     `gorm:"index:idx_sc_room_ts,priority:2" json:"ts"`
	CreatedAt      time.Time `json:"created_at"`
}

func (SuperChat) TableName() string { return "super_chat" }

// LiveMarker records a broadcast start or stop. Markers are not guaranteed
// to alternate; a crashed stream can leave a start without a stop.
type LiveMarker struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID    int64     `gorm:"index:idx_marker_room_ts,priority:1;not null" json:"room_id"`
	IsStart   bool      `json:"is_start"`
	Title     string    `gorm:"type:varchar(128)" json:"title"`
	AreaName  string    `gorm:"type:varchar(64)" json:"area_name"`
	Ts        int64     `gorm:"index:idx_marker_room_ts,priority:2" json:"ts"`
	CreatedAt time.Time `json:"created_at"`
}

func (LiveMarker) TableName() string { return "live_marker" }
