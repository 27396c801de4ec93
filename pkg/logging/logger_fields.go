package logging

import (
	"math"
	"time"
)

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

// Float64 stores non-finite values as strings so entries stay valid JSON.
func Float64(key string, value float64) Field {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Field{Key: key, Value: formatNonFinite(value)}
	}
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: KeyError, Value: nil}
	}
	return Field{Key: KeyError, Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Domain field helpers

func Component(name string) Field {
	return String(KeyComponent, name)
}

func Algorithm(name string) Field {
	return String(KeyAlgorithm, name)
}

func RequestID(id string) Field {
	return String(KeyRequestID, id)
}

func RunIndex(i int) Field {
	return Int(KeyRun, i)
}

func Seed(seed uint64) Field {
	return Uint64(KeySeed, seed)
}

func Score(q float64) Field {
	return Float64(KeyScore, q)
}

func NodeCount(n int) Field {
	return Int(KeyNodes, n)
}

func EdgeCount(m int) Field {
	return Int(KeyEdges, m)
}

func Latency(d time.Duration) Field {
	return Duration(KeyLatency, d)
}

func Count(n int) Field {
	return Int(KeyCount, n)
}

func formatNonFinite(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	default:
		return "-Inf"
	}
}
