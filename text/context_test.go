package text

import (
	"errors"
	"testing"

	"github.com/go-text/typesetting/language"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/textlayout/fontdesc"
)

func TestNewContextRequiresFontMap(t *testing.T) {
	_, err := NewContext(nil)
	if !errors.Is(err, ErrNoFontMap) {
		t.Errorf("err = %v, want ErrNoFontMap", err)
	}
}

func TestContextDefaults(t *testing.T) {
	ctx, err := NewContext(newTestFontMap(t), WithResolution(-3))
	require.NoError(t, err)
	assert.Equal(t, DirectionWeakLTR, ctx.BaseDirection())
	assert.Equal(t, 96.0, ctx.Resolution())
	assert.Equal(t, fontdesc.GravitySouth, ctx.Gravity())
	assert.Equal(t, TieForward, ctx.ScriptTieBreak())
	assert.NotNil(t, ctx.ShapeEngine())
}

func TestContextSettersBumpSerial(t *testing.T) {
	ctx := newTestContext(t)
	tests := []struct {
		name string
		set  func()
	}{
		{"direction", func() { ctx.SetBaseDirection(DirectionRTL) }},
		{"language", func() { ctx.SetLanguage(language.NewLanguage("de")) }},
		{"font", func() { ctx.SetFontDescription(fontdesc.Parse("Test 12px")) }},
		{"resolution", func() { ctx.SetResolution(144) }},
		{"gravity", func() { ctx.SetGravity(fontdesc.GravityEast) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := ctx.Serial()
			tt.set()
			assert.NotEqual(t, before, ctx.Serial())
		})
	}

	before := ctx.Serial()
	ctx.SetResolution(0)
	assert.Equal(t, before, ctx.Serial(), "an invalid resolution is ignored")
}

func TestContextFontMapChangeClearsCache(t *testing.T) {
	ctx := newTestContext(t)
	Shape(ctx, "abc", &Analysis{Font: testFont(t, ctx)})
	require.Equal(t, 1, ctx.ShapeCacheStats().Len)

	before := ctx.Serial()
	ctx.FontMap().AddFace(newTestFace("Extra", testCovers))
	assert.NotEqual(t, before, ctx.Serial())
	assert.Zero(t, ctx.ShapeCacheStats().Len)
}

func TestContextWithoutCache(t *testing.T) {
	ctx := newTestContext(t, WithShapeCache(0))
	Shape(ctx, "abc", &Analysis{Font: testFont(t, ctx)})
	assert.Zero(t, ctx.ShapeCacheStats())
}
