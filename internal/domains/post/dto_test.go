package post

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreatePostRequest_Validate(t *testing.T) {
	assert.NoError(t, CreatePostRequest{Title: "A Post"}.Validate())

	err := CreatePostRequest{}.Validate()
	assert.ErrorContains(t, err, "title is required")

	err = CreatePostRequest{Title: strings.Repeat("x", 501)}.Validate()
	assert.ErrorContains(t, err, "between 1 and 500")
}

func TestUpdatePostRequest_Validate(t *testing.T) {
	title := "New Title"
	empty := ""

	assert.NoError(t, UpdatePostRequest{}.Validate())
	assert.NoError(t, UpdatePostRequest{Title: &title}.Validate())
	assert.Error(t, UpdatePostRequest{Title: &empty}.Validate())
}

func TestUpdatePostRequest_IsEmpty(t *testing.T) {
	content := "body"

	assert.True(t, UpdatePostRequest{}.IsEmpty())
	assert.False(t, UpdatePostRequest{Content: &content}.IsEmpty())
}

func TestSchedulePostRequest_Validate(t *testing.T) {
	assert.Error(t, SchedulePostRequest{}.Validate())
	assert.NoError(t, SchedulePostRequest{ScheduledFor: time.Now().Add(time.Hour)}.Validate())
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 45)
	assert.Equal(t, 3, p.TotalPages)

	assert.Equal(t, 0, NewPagination(1, 20, 0).TotalPages)
	assert.Equal(t, 1, NewPagination(1, 20, 20).TotalPages)
}
