package api

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormat(t *testing.T) {
	apiErr := Error{Code: 42, Message: "whoops!"}
	assert.Equal(t, "whoops!", fmt.Sprintf("%v", apiErr))
	assert.Equal(t, "whoops!", fmt.Sprintf("%s", apiErr))
	assert.Equal(t, "\"whoops!\"", fmt.Sprintf("%q", apiErr))

	withID := Error{Code: 42, Message: "whoops!", ErrorID: "req-123"}
	assert.Equal(t, "whoops! (error_id req-123)", fmt.Sprintf("%s", withID))
}
