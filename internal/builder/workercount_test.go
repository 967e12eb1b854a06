package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultWorkerCountIsSaneOnThisHost(t *testing.T) {
	n := defaultWorkerCount()
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, 16)
}
