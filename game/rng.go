package game

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// newRNG 基于种子构造确定性随机源，便于复现布局
func newRNG(seed int64) *rand.Rand {
	// 非加密随机数：模拟需要可复现。
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "layout"), seedWord(seed, "orbs")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}
