package core

// splitmix64 is a bijective 64-bit mixer
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// PixelSeed derives the seed pair for one (pixel, sample index) stream. It is a
// pure function of its inputs, so the stream does not depend on which worker
// renders the pixel or in which order.
func PixelSeed(x, y, width, sampleIndex int, base uint64) (uint64, uint64) {
	pixel := uint64(y)*uint64(width) + uint64(x)
	seed1 := splitmix64(pixel ^ splitmix64(base))
	seed2 := splitmix64(uint64(sampleIndex) + seed1)
	return seed1, seed2
}
