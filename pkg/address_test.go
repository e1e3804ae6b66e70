package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddress(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		addr, err := NormalizeAddress("0xA16081F360e3847006dB660bae1c6d1b2e17eC2A")
		require.NoError(t, err)
		assert.Equal(t, "0xa16081f360e3847006db660bae1c6d1b2e17ec2a", addr)
	})
	t.Run("missing prefix", func(t *testing.T) {
		_, err := NormalizeAddress("a16081f360e3847006db660bae1c6d1b2e17ec2a")
		assert.Error(t, err)
	})
	t.Run("wrong length", func(t *testing.T) {
		_, err := NormalizeAddress("0xa16081f360e3847006db660bae1c6d1b2e17ec")
		assert.Error(t, err)
	})
	t.Run("not hex", func(t *testing.T) {
		_, err := NormalizeAddress("0xz16081f360e3847006db660bae1c6d1b2e17ec2a")
		assert.Error(t, err)
	})
}

func TestNormalizeTxHash(t *testing.T) {
	const hash = "0x2E95583042e18617a65800ba917de386d8d1081211948f06fc53566194e9a365"

	normalized, err := NormalizeTxHash(hash)
	require.NoError(t, err)
	assert.Equal(t, "0x2e95583042e18617a65800ba917de386d8d1081211948f06fc53566194e9a365", normalized)

	_, err = NormalizeTxHash("0x2e95")
	assert.Error(t, err)
}
