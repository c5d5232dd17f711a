package codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []interface{}{
		nil,
		true,
		false,
		int64(42),
		float64(3.5),
		"hello",
		[]byte("opaque bytes"),
		[]interface{}{int64(1), int64(2), int64(3)},
		map[string]interface{}{
			"meta": map[string]interface{}{
				"agent_id":  "u",
				"longitude": 1.5,
				"latitude":  -2.0,
				"timestamp": int64(1700000000),
			},
			"payload": []interface{}{int64(1), int64(2), int64(3)},
		},
	}

	for _, c := range cases {
		data, err := Encode(c)
		require.NoError(t, err)

		var out interface{}
		require.NoError(t, Decode(data, &out))
		assert.EqualValues(t, c, out)
	}
}

func TestFramerIteratesCompleteMessages(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(map[string]interface{}{"n": int64(1)}))
	require.NoError(t, w.Write(map[string]interface{}{"n": int64(2)}))
	require.NoError(t, w.Write(map[string]interface{}{"n": int64(3)}))

	f := NewFramer(&buf)

	var got []int64
	for {
		v, err := f.NextValue()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		m := v.(map[string]interface{})
		got = append(got, m["n"].(int64))
	}

	assert.Equal(t, []int64{1, 2, 3}, got)
}
