package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "0", FormatRupiah(0))
	assert.Equal(t, "500", FormatRupiah(500))
	assert.Equal(t, "18.000", FormatRupiah(18000))
	assert.Equal(t, "103.500", FormatRupiah(103500))
	assert.Equal(t, "1.250.000", FormatRupiah(1250000))
	assert.Equal(t, "-5.000", FormatRupiah(-5000))
}

func TestGenerateSaleNumber(t *testing.T) {
	n := GenerateSaleNumber()
	assert.True(t, strings.HasPrefix(n, "SALE-"))
	assert.Len(t, n, len("SALE-")+8)
	assert.NotEqual(t, n, GenerateSaleNumber())
}
