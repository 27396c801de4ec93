package discrete

// Options tunes the BE local search.
type Options struct {
	// MaxPasses caps the number of Kernighan-Lin passes per run.
	MaxPasses int `yaml:"max_passes" validate:"gte=1"`
	// Epsilon is the minimum score gain that counts as an improvement.
	Epsilon float64 `yaml:"epsilon" validate:"gt=0"`
	// Patience is how many consecutive non-improving flips a pass tolerates
	// before stopping early. 1 stops at the first flip that fails to beat
	// the pass best; 0 never stops early.
	Patience int `yaml:"patience" validate:"gte=0"`
	// SampleThreshold enables bounded candidate search for graphs with more
	// nodes than this. 0 disables sampling.
	SampleThreshold int `yaml:"sample_threshold" validate:"gte=0"`
	// SampleSize is the number of unfixed nodes evaluated per flip when
	// sampling is active.
	SampleSize int `yaml:"sample_size" validate:"gte=1"`
}

// DefaultOptions returns the settings used by the detector unless
// configured otherwise.
func DefaultOptions() Options {
	return Options{
		MaxPasses:       100,
		Epsilon:         1e-7,
		Patience:        10,
		SampleThreshold: 2000,
		SampleSize:      256,
	}
}

// sampling reports whether bounded candidate search applies to n nodes.
func (o Options) sampling(n int) bool {
	return o.SampleThreshold > 0 && n > o.SampleThreshold
}

// flipsPerPass returns the per-pass flip cap: n for small graphs,
// min(n, max(20, n/5)) once sampling is active.
func (o Options) flipsPerPass(n int) int {
	if !o.sampling(n) {
		return n
	}
	return min(n, max(20, n/5))
}
