package service_test

import (
	"context"
	"testing"

	"github.com/dom/task-tracker/internal/domain"
	"github.com/dom/task-tracker/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdateRole(t *testing.T) {
	services, store, _ := testutil.NewTestServices(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, store.Repositories())

	tests := []struct {
		name    string
		id      string
		role    string
		wantErr error
		wantMsg string
	}{
		{name: "promote", id: user.ID.String(), role: "admin"},
		{name: "demote", id: user.ID.String(), role: "user"},
		{name: "invalid role", id: user.ID.String(), role: "superuser", wantErr: domain.ErrValidation, wantMsg: domain.MsgInvalidRole},
		{name: "invalid role wins over unknown id", id: uuid.NewString(), role: "", wantErr: domain.ErrValidation, wantMsg: domain.MsgInvalidRole},
		{name: "unknown user", id: uuid.NewString(), role: "admin", wantErr: domain.ErrNotFound, wantMsg: domain.MsgUserNotFound},
		{name: "malformed id", id: "nope", role: "admin", wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.User.UpdateRole(ctx, tt.id, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, domain.ClientMessage(err))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.Role(tt.role), got.Role)

			stored, err := services.User.Get(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.Role(tt.role), stored.Role)
		})
	}
}

func TestUserService_GetAndDelete(t *testing.T) {
	services, store, _ := testutil.NewTestServices(t)
	ctx := context.Background()
	repos := store.Repositories()

	user, _ := testutil.NewUserBuilder().Build(t, repos)
	testutil.NewTaskBuilder().WithCreator(user).Build(t, repos)

	got, err := services.User.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	users, err := services.User.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, services.User.Delete(ctx, user.ID))
	assert.Equal(t, 0, store.TaskCount())

	_, err = services.User.Get(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = services.User.Delete(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, domain.MsgUserNotFound, domain.ClientMessage(err))
}
