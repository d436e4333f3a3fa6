package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mirskikh/inkwell/internal/models"
)

func TestCan_MatrixRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		perm   Permission
		editor bool
		writer bool
	}{
		{PermViewDashboard, true, true},
		{PermManageUsers, false, false},
		{PermManageSettings, false, false},
		{PermManagePosts, true, true},
		{PermEditAllPosts, true, false},
		{PermPublishPosts, true, false},
		{PermManageCategories, true, false},
		{PermManageImages, true, true},
		{PermViewContactMessages, true, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.perm), func(t *testing.T) {
			t.Parallel()

			assert.True(t, Can(models.RoleAdmin, tt.perm), "admin is implicit superuser")
			assert.Equal(t, tt.editor, Can(models.RoleEditor, tt.perm))
			assert.Equal(t, tt.writer, Can(models.RoleWriter, tt.perm))
		})
	}
}

func TestCanTransitionStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		role models.Role
		from models.PostStatus
		to   models.PostStatus
		want bool
	}{
		{"writer saves draft", models.RoleWriter, models.StatusDraft, models.StatusDraft, true},
		{"writer requests verification", models.RoleWriter, models.StatusDraft, models.StatusVerificationPending, true},
		{"writer cannot publish from draft", models.RoleWriter, models.StatusDraft, models.StatusPublished, false},
		{"writer cannot publish from pending", models.RoleWriter, models.StatusVerificationPending, models.StatusPublished, false},
		{"editor publishes", models.RoleEditor, models.StatusVerificationPending, models.StatusPublished, true},
		{"admin publishes directly", models.RoleAdmin, models.StatusDraft, models.StatusPublished, true},
		{"editor unpublishes", models.RoleEditor, models.StatusPublished, models.StatusDraft, true},
		{"invalid target status", models.RoleAdmin, models.StatusDraft, models.PostStatus("LIVE"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, CanTransitionStatus(tt.role, tt.from, tt.to))
		})
	}
}

func TestCanAccessPost_OwnershipGate(t *testing.T) {
	t.Parallel()

	post := &models.Post{ID: 1, AuthorID: 7}

	writerOwner := &models.User{ID: 7, Role: models.RoleWriter}
	writerOther := &models.User{ID: 8, Role: models.RoleWriter}
	editor := &models.User{ID: 9, Role: models.RoleEditor}
	admin := &models.User{ID: 10, Role: models.RoleAdmin}

	assert.True(t, CanAccessPost(writerOwner, post))
	assert.False(t, CanAccessPost(writerOther, post))
	assert.True(t, CanAccessPost(editor, post))
	assert.True(t, CanAccessPost(admin, post))
}
