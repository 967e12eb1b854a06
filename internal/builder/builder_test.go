package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumilio-gallery/manifest-builder/internal/config"
)

func TestKeyPrefix(t *testing.T) {
	t.Run("s3 uses the configured prefix", func(t *testing.T) {
		got := KeyPrefix(config.StorageConfig{Kind: config.StorageS3, S3: config.S3Config{Prefix: "photos/"}})
		assert.Equal(t, "photos/", got)
	})

	t.Run("github uses the configured path", func(t *testing.T) {
		got := KeyPrefix(config.StorageConfig{Kind: config.StorageGitHub, GitHub: config.GitHubConfig{Path: "library"}})
		assert.Equal(t, "library", got)
	})

	t.Run("local has no prefix concept", func(t *testing.T) {
		got := KeyPrefix(config.StorageConfig{Kind: config.StorageLocal})
		assert.Equal(t, "", got)
	})
}
