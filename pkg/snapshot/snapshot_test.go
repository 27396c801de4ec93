package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-coreperiphery/pkg/detector"
	"github.com/dd0wney/cluso-coreperiphery/pkg/discrete"
	"github.com/dd0wney/cluso-coreperiphery/pkg/scheduler"
	"github.com/dd0wney/cluso-coreperiphery/pkg/synth"
)

func detect(t *testing.T) *detector.Result {
	t.Helper()
	g, err := synth.TwoCliquesBridge(5)
	require.NoError(t, err)

	d := detector.NewDiscrete(discrete.DefaultOptions(),
		detector.WithScheduler(scheduler.Config{Runs: 3, RandomSeed: 8}))
	res, err := d.Detect(context.Background(), g)
	require.NoError(t, err)
	return res
}

func TestWriteRead(t *testing.T) {
	res := detect(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, res))
	assert.Equal(t, []byte("CPSN"), buf.Bytes()[:4])

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, res.RequestID, got.RequestID)
	assert.Equal(t, res.Group, got.Group)
	assert.Equal(t, res.Assignment, got.Assignment)
	assert.Equal(t, res.QualityScore, got.QualityScore)
	assert.Equal(t, res.Stats.ScoreHistory, got.Stats.ScoreHistory)
	assert.InDeltaMapValues(t, res.Coreness, got.Coreness, 0)
}

func TestReadSequential(t *testing.T) {
	first, second := detect(t), detect(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, first))
	require.NoError(t, Write(&buf, second))

	a, err := Read(&buf)
	require.NoError(t, err)
	b, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, first.RequestID, a.RequestID)
	assert.Equal(t, second.RequestID, b.RequestID)
}

func TestReadCorrupt(t *testing.T) {
	data, err := Marshal(detect(t))
	require.NoError(t, err)

	t.Run("bad magic", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[0] = 'X'
		_, err := Unmarshal(bad)
		assert.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("future version", func(t *testing.T) {
		bad := bytes.Clone(data)
		binary.BigEndian.PutUint16(bad[4:6], Version+1)
		_, err := Unmarshal(bad)
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("flipped payload bit", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[len(bad)-1] ^= 0x01
		_, err := Unmarshal(bad)
		assert.ErrorIs(t, err, ErrChecksumMismatch)
	})

	t.Run("oversized length", func(t *testing.T) {
		bad := bytes.Clone(data)
		binary.BigEndian.PutUint32(bad[6:10], MaxPayload+1)
		_, err := Unmarshal(bad)
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("length beyond stream", func(t *testing.T) {
		bad := bytes.Clone(data)
		binary.BigEndian.PutUint32(bad[6:10], MaxPayload)
		_, err := Unmarshal(bad)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := Unmarshal(data[:len(data)-3])
		assert.Error(t, err)
	})
}

func TestWriteNil(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, nil))
}
