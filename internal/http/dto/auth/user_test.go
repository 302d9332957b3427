package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
)

func TestNewUserResponseFormatsDateJoined(t *testing.T) {
	u := &repository.User{
		ID:         "u1",
		Username:   "alice",
		Email:      "a@x.com",
		FirstName:  "Alice",
		DateJoined: time.Date(2024, 3, 7, 9, 5, 59, 0, time.UTC),
	}
	resp := NewUserResponse(u)
	assert.Equal(t, "07-03-2024 09:05", resp.DateJoined)
	assert.Equal(t, "alice", resp.Username)
}
