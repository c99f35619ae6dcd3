package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusSymbol(t *testing.T) {
	assert.Equal(t, "~", StatusSymbol('M'))
	assert.Equal(t, "→", StatusSymbol('R'))
	assert.Equal(t, " ", StatusSymbol(' '))
	assert.Equal(t, "T", StatusSymbol('T'))
}

func TestIsChangeCode(t *testing.T) {
	assert.True(t, IsChangeCode('M'))
	assert.True(t, IsChangeCode('D'))
	assert.False(t, IsChangeCode(' '))
	assert.False(t, IsChangeCode('?'))
}
