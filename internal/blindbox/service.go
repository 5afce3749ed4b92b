package blindbox

import (
	"context"

	"github.com/y1kuo/liveboard/internal/event"
)

const defaultRecordLimit = 200

// Record is one gift row priced against the item table.
type Record struct {
	ID        uint64 `json:"id"`
	Uname     string `json:"uname"`
	Uface     string `json:"uface"`
	GiftName  string `json:"gift_name"`
	GiftNum   int64  `json:"gift_num"`
	GiftValue int64  `json:"gift_value"`
	Cost      int64  `json:"cost"`
	Profit    int64  `json:"profit"`
	Ts        int64  `json:"ts"`
}

// Distribution reports how often one item type dropped. Every item in the
// table gets an entry, observed or not.
type Distribution struct {
	Name         string `json:"name"`
	Count        int64  `json:"count"`
	Value        int64  `json:"value"`
	TotalValue   int64  `json:"totalValue"`
	IsProfitable bool   `json:"isProfitable"`
}

type Stats struct {
	TotalBoxes   int64          `json:"totalBoxes"`
	TotalCost    int64          `json:"totalCost"`
	TotalOutput  int64          `json:"totalOutput"`
	NetProfit    int64          `json:"netProfit"`
	ProfitRate   float64        `json:"profitRate"`
	Distribution []Distribution `json:"distribution"`
	Records      []Record       `json:"records"`
}

type Service struct {
	repo *event.Repo
}

func NewService(repo *event.Repo) *Service {
	return &Service{repo: repo}
}

// Stats prices the most recent blind-box gift rows and aggregates the
// viewer's profit and loss. Zero time bounds mean unbounded; unameFilter is
// an optional case-insensitive substring match on the sender.
func (s *Service) Stats(ctx context.Context, roomID, start, end int64, limit int, unameFilter string) (Stats, error) {
	if limit <= 0 {
		limit = defaultRecordLimit
	}

	rows, err := s.repo.BlindboxGifts(ctx, roomID, ItemNames, unameFilter, start, end, limit)
	if err != nil {
		return Stats{}, err
	}

	records := make([]Record, 0, len(rows))
	for _, r := range rows {
		// Unknown names price at zero rather than being dropped, so a
		// table edit never hides already-fetched rows.
		value := Items[r.GiftName] * r.GiftNum
		cost := Cost * r.GiftNum
		records = append(records, Record{
			ID:        r.ID,
			Uname:     r.Uname,
			Uface:     r.Uface,
			GiftName:  r.GiftName,
			GiftNum:   r.GiftNum,
			GiftValue: value,
			Cost:      cost,
			Profit:    value - cost,
			Ts:        r.Ts,
		})
	}

	var totalBoxes, totalOutput int64
	for _, rec := range records {
		totalBoxes += rec.GiftNum
		totalOutput += rec.GiftValue
	}
	totalCost := totalBoxes * Cost
	netProfit := totalOutput - totalCost

	var profitRate float64
	if totalCost > 0 {
		profitRate = float64(netProfit) / float64(totalCost) * 100
	}

	type bucket struct {
		count      int64
		totalValue int64
	}
	buckets := make(map[string]*bucket, len(ItemNames))
	for _, name := range ItemNames {
		buckets[name] = &bucket{}
	}
	for _, rec := range records {
		if b, ok := buckets[rec.GiftName]; ok {
			b.count += rec.GiftNum
			b.totalValue += rec.GiftValue
		}
	}

	// ItemNames is already value-descending, which is the display order.
	distribution := make([]Distribution, 0, len(ItemNames))
	for _, name := range ItemNames {
		value := Items[name]
		distribution = append(distribution, Distribution{
			Name:         name,
			Count:        buckets[name].count,
			Value:        value,
			TotalValue:   buckets[name].totalValue,
			IsProfitable: value >= Cost,
		})
	}

	return Stats{
		TotalBoxes:   totalBoxes,
		TotalCost:    totalCost,
		TotalOutput:  totalOutput,
		NetProfit:    netProfit,
		ProfitRate:   profitRate,
		Distribution: distribution,
		Records:      records,
	}, nil
}
