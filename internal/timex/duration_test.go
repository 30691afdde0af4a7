package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type holder struct {
	D Duration `json:"d" yaml:"d"`
}

func TestDuration_JSON(t *testing.T) {
	var h holder
	require.NoError(t, json.Unmarshal([]byte(`{"d": "1m30s"}`), &h))
	assert.Equal(t, 90*time.Second, h.D.Duration)

	require.NoError(t, json.Unmarshal([]byte(`{"d": 2000000000}`), &h))
	assert.Equal(t, 2*time.Second, h.D.Duration)

	require.Error(t, json.Unmarshal([]byte(`{"d": "soon"}`), &h))
	require.Error(t, json.Unmarshal([]byte(`{"d": true}`), &h))

	out, err := json.Marshal(holder{D: Duration{5 * time.Second}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d": "5s"}`, string(out))
}

func TestDuration_YAML(t *testing.T) {
	var h holder
	require.NoError(t, yaml.Unmarshal([]byte("d: 45s\n"), &h))
	assert.Equal(t, 45*time.Second, h.D.Duration)

	require.NoError(t, yaml.Unmarshal([]byte("d: 1000\n"), &h))
	assert.Equal(t, time.Microsecond, h.D.Duration)

	require.Error(t, yaml.Unmarshal([]byte("d: later\n"), &h))
}
