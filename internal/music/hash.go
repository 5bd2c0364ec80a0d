package music

// hash32 is the engine's only source of apparent randomness: FNV-1a over
// the input bytes. Every melodic coin-flip, instrument tie-break and
// humanization wobble derives from it, so identical graphs always replay
// identically, including across ports of this engine.
func hash32(s string) uint32 {
	const (
		offset = 2166136261
		prime  = 16777619
	)
	h := uint32(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime
	}
	return h
}

// hashUnit folds a hash into [0,1) for threshold comparisons.
func hashUnit(s string) float64 {
	return float64(hash32(s)) / 4294967296.0
}
