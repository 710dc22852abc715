package encoding

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"name"`
	Note  string  `json:"note,omitempty"`
	Score float64 `json:"score"`
}

func TestMarshalKeepsMarkupAndHangul(t *testing.T) {
	e := NewEncoder()

	data, err := e.Marshal(sample{Name: "IT/소프트웨어", Note: "<b>A&B</b>", Score: 72.5})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"IT/소프트웨어","note":"<b>A&B</b>","score":72.5}`, string(data))
}

func TestMarshalIndent(t *testing.T) {
	e := NewEncoder()

	data, err := e.MarshalIndent(sample{Name: "x"}, "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"x\",\n  \"score\": 0\n}", string(data))
}

func TestEncoderStats(t *testing.T) {
	e := NewEncoder()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, err := e.Marshal(sample{Name: "n", Score: float64(i)})
			if assert.NoError(t, err) {
				var out sample
				assert.NoError(t, e.Unmarshal(data, &out))
				assert.Equal(t, float64(i), out.Score)
			}
		}(i)
	}
	wg.Wait()

	stats := e.GetStats()
	assert.Equal(t, int64(20), stats["marshaled"])
	assert.Equal(t, int64(20), stats["decoded"])
	assert.Greater(t, stats["bytes_out"].(int64), int64(0))

	var bad sample
	assert.Error(t, e.Unmarshal([]byte("{"), &bad))
	assert.Equal(t, int64(20), e.GetStats()["decoded"])
}
