package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	orig := version
	t.Cleanup(func() { version = orig })

	t.Run("injected", func(t *testing.T) {
		version = "v1.4.2"
		assert.Equal(t, "v1.4.2", GetVersion())
		assert.Equal(t, "1.4.2", Semver().String())
	})

	t.Run("fallback", func(t *testing.T) {
		version = ""
		assert.NotEmpty(t, GetVersion())
		assert.NotNil(t, Semver())
	})

	t.Run("unparsable", func(t *testing.T) {
		version = "nightly"
		assert.Equal(t, "0.0.0-dev", Semver().String())
	})
}
