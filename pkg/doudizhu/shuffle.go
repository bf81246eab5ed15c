package doudizhu

import (
	"crypto/sha256"
	"math/rand/v2"
	"slices"
)

// Shuffler 洗牌策略，同一个 seed 必须得到同样的排列，且不能修改入参
type Shuffler interface {
	Shuffle(cards Cards, seed string) Cards
}

// SeededShuffler 默认的洗牌实现
// 以 sha256(seed) 作为 ChaCha8 的种子做 Fisher-Yates 洗牌
type SeededShuffler struct{}

func (SeededShuffler) Shuffle(cards Cards, seed string) Cards {
	out := slices.Clone(cards)
	rng := rand.New(rand.NewChaCha8(sha256.Sum256([]byte(seed))))
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Shuffle 使用默认策略洗牌
func Shuffle(cards Cards, seed string) Cards {
	return SeededShuffler{}.Shuffle(cards, seed)
}

// ShufflerFunc 方便测试时直接传函数
type ShufflerFunc func(cards Cards, seed string) Cards

func (f ShufflerFunc) Shuffle(cards Cards, seed string) Cards {
	return f(cards, seed)
}
