package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitRedis_Unreachable(t *testing.T) {
	// Nothing listens on port 1; the bounded ping must surface the
	// failure instead of handing back a dead client.
	client, err := InitRedis("localhost:1", "", 0)
	assert.Error(t, err)
	assert.Nil(t, client)
}
