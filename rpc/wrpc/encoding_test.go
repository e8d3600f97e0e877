package wrpc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wrpcd/wrpcd/network"
)

func TestEncoding_Text(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text     string
		expected Encoding
		errMsg   string
	}{
		{text: "borsh", expected: Borsh},
		{text: "json", expected: SerdeJSON},
		{text: "Borsh", errMsg: "unknown wrpc encoding 'Borsh'"},
		{text: "serde-json", errMsg: "unknown wrpc encoding"},
		{text: "", errMsg: "unknown wrpc encoding"},
	}

	for _, c := range cases {
		var e Encoding
		err := e.UnmarshalText([]byte(c.text))
		if c.errMsg != "" {
			require.ErrorContains(t, err, c.errMsg)
			continue
		}

		require.NoError(t, err)
		require.Equal(t, c.expected, e)

		text, err := e.MarshalText()
		require.NoError(t, err)
		require.Equal(t, c.text, string(text))
	}

	_, err := Encoding(9).MarshalText()
	require.Error(t, err)
	require.Equal(t, "Encoding(9)", Encoding(9).String())
}

func TestEncoding_DefaultPort(t *testing.T) {
	t.Parallel()

	for _, n := range network.Types() {
		require.Equal(t, n.DefaultBorshRPCPort(), Borsh.DefaultPort(n))
		require.Equal(t, n.DefaultJSONRPCPort(), SerdeJSON.DefaultPort(n))
		require.NotEqual(t, Borsh.DefaultPort(n), SerdeJSON.DefaultPort(n))
	}

	require.Panics(t, func() { Encoding(2).DefaultPort(network.Mainnet) })
}
