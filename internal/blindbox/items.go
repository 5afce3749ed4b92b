package blindbox

// Cost of a single draw, in 电池. All blind-box accounting stays in this
// denomination; it never mixes with the 1/1000-yuan gift pricing.
const Cost = 150

// Items maps each drawable gift to its battery value. A draw is profitable
// for the viewer iff its value covers the draw cost.
var Items = map[string]int64{
	"浪漫城堡": 22330,
	"蛇形护符": 2000,
	"时空之站": 1000,
	"绮彩权杖": 400,
	"爱心抱枕": 160,
	"棉花糖":  90,
	"电影票":  20,
}

// ItemNames lists the drawable gifts in table order (value descending).
var ItemNames = []string{
	"浪漫城堡",
	"蛇形护符",
	"时空之站",
	"绮彩权杖",
	"爱心抱枕",
	"棉花糖",
	"电影票",
}
