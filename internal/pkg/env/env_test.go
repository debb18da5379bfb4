package env_test

import (
	"testing"
	"time"

	"github.com/lalitjoshi007/FMT/internal/pkg/env"
	"github.com/stretchr/testify/assert"
)

func TestRequireString(t *testing.T) {
	t.Setenv("TEST_REQUIRED_STRING", "required_value")
	assert.Equal(t, "required_value", env.RequireString("TEST_REQUIRED_STRING"))
}

func TestRequireString_Panic(t *testing.T) {
	assert.Panics(t, func() {
		env.RequireString("NON_EXISTENT_REQUIRED_STRING")
	})
}

func TestRequireString_EmptyPanics(t *testing.T) {
	t.Setenv("TEST_EMPTY_REQUIRED", "")
	assert.Panics(t, func() {
		env.RequireString("TEST_EMPTY_REQUIRED")
	})
}

func TestString(t *testing.T) {
	t.Setenv("TEST_STRING", "hello")
	assert.Equal(t, "hello", env.String("TEST_STRING", "default"))
	assert.Equal(t, "default", env.String("NON_EXISTENT_STRING", "default"))
}

func TestBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_BOOL_0", "0")
	t.Setenv("TEST_BOOL_GARBAGE", "maybe")
	assert.True(t, env.Bool("TEST_BOOL", false))
	assert.False(t, env.Bool("TEST_BOOL_0", true))
	assert.True(t, env.Bool("TEST_BOOL_GARBAGE", true))
	assert.False(t, env.Bool("NON_EXISTENT_BOOL", false))
}

func TestDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "2h45m")
	t.Setenv("TEST_BAD_DURATION", "soon")
	assert.Equal(t, 2*time.Hour+45*time.Minute, env.Duration("TEST_DURATION", time.Minute))
	assert.Equal(t, time.Minute, env.Duration("TEST_BAD_DURATION", time.Minute))
	assert.Equal(t, time.Minute, env.Duration("NON_EXISTENT_DURATION", time.Minute))
}

func TestStrings(t *testing.T) {
	t.Setenv("TEST_STRINGS", " google, facebook ,,")
	t.Setenv("TEST_STRINGS_BLANK", " , ")
	def := []string{"x"}

	assert.Equal(t, []string{"google", "facebook"}, env.Strings("TEST_STRINGS", def))
	assert.Equal(t, def, env.Strings("TEST_STRINGS_BLANK", def))
	assert.Equal(t, def, env.Strings("NON_EXISTENT_STRINGS", def))
}
