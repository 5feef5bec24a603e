package pager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPager_FirstPage(t *testing.T) {
	p := New(20)

	assert.False(t, p.HasPrev(), "previous is disabled at offset 0")
	assert.False(t, p.HasNext(), "next is unknown until a page is observed")
	assert.Equal(t, 1, p.Page())
}

func TestPager_FullPageEnablesNext(t *testing.T) {
	p := New(20)
	p.Observe(20)

	assert.True(t, p.HasNext())

	p.Next()
	assert.Equal(t, 20, p.Offset)
	assert.True(t, p.HasPrev())
	assert.Equal(t, 2, p.Page())
}

func TestPager_ShortPageDisablesNext(t *testing.T) {
	p := At(20, 40)
	p.Observe(7)

	assert.False(t, p.HasNext())
	from, to := p.Range()
	assert.Equal(t, 41, from)
	assert.Equal(t, 47, to)
}

func TestPager_PrevClampsAtZero(t *testing.T) {
	p := At(20, 10)
	p.Prev()
	assert.Equal(t, 0, p.Offset)

	p.Prev()
	assert.Equal(t, 0, p.Offset)
	assert.False(t, p.HasPrev())
}

func TestPager_Reset(t *testing.T) {
	p := At(20, 60)
	p.Observe(20)
	p.Reset()

	assert.Equal(t, 0, p.Offset)
	assert.False(t, p.HasNext())
	from, to := p.Range()
	assert.Zero(t, from)
	assert.Zero(t, to)
}

func TestPager_Defaults(t *testing.T) {
	assert.Equal(t, DefaultLimit, New(0).Limit)
	assert.Equal(t, DefaultLimit, New(-5).Limit)
	assert.Equal(t, 0, At(10, -3).Offset)
}

func TestPager_ZeroValuePage(t *testing.T) {
	var p Pager

	assert.Equal(t, 1, p.Page())
	p.Offset = 40
	assert.Equal(t, 1, p.Page())
}
