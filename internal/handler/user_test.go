package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/ims-chat/internal/apperror"
	"github.com/sakif/ims-chat/internal/handler"
)

// MockRegistrar implements handler.Registrar.
type MockRegistrar struct {
	CapturedUsername string
	ReturnErr        error
}

func (m *MockRegistrar) Register(_ context.Context, username string) error {
	m.CapturedUsername = username
	return m.ReturnErr
}

func TestHandleRegister(t *testing.T) {
	mock := &MockRegistrar{}
	h := handler.NewUserHandler(mock, testLogger())

	rr := postForm(t, h.HandleRegister, "/register", url.Values{
		"username": {"alice"},
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.Equal(t, "alice", mock.CapturedUsername)
}

func TestHandleRegister_Empty(t *testing.T) {
	mock := &MockRegistrar{ReturnErr: apperror.ValidationFailed("username", "username is required")}
	h := handler.NewUserHandler(mock, testLogger())

	rr := postForm(t, h.HandleRegister, "/register", url.Values{})

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var res handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, "validation_error", res.Error)
}
