package economy

import "strings"

// Symbols are the reel faces; the index decides the jackpot.
var Symbols = []string{
	"🍒", "🍋", "🍊", "🍉", "🍇",
	"🍓", "🍍", "🍎", "🍏", "🍌",
	"🥝", "🥥", "💎", "⭐", "🌟",
}

const SpinCost int64 = 1

// Payout is what three matching symbols at index pay.
func Payout(index int) int64 {
	switch index {
	case 0:
		return 50
	case 5:
		return 100
	case 9:
		return 500
	case 12:
		return 1000
	case 14:
		return 5000
	}
	return 10
}

type SpinResult struct {
	Reels   [3]int
	Win     bool
	Payout  int64
	Balance int64
}

func (r SpinResult) Symbols() string {
	var b strings.Builder
	for _, i := range r.Reels {
		b.WriteString(Symbols[i])
	}
	return b.String()
}

// Roll draws three reels with intn, which must return [0, n).
func Roll(intn func(n int) int) SpinResult {
	var res SpinResult
	for i := range res.Reels {
		res.Reels[i] = intn(len(Symbols))
	}
	res.Win = res.Reels[0] == res.Reels[1] && res.Reels[1] == res.Reels[2]
	if res.Win {
		res.Payout = Payout(res.Reels[0])
	}
	return res
}
