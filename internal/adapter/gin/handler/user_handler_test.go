package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	usecase "user-api-service/internal/usecase/user"
	pkgerrors "user-api-service/pkg/errors"
)

// MockUserUsecase is a mock implementation of user.Usecase
type MockUserUsecase struct {
	mock.Mock
}

func (m *MockUserUsecase) GetUser(ctx context.Context, req usecase.GetUserRequest) (*usecase.GetUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.GetUserResponse), args.Error(1)
}

func (m *MockUserUsecase) ListUsers(ctx context.Context) (*usecase.ListUsersResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListUsersResponse), args.Error(1)
}

func (m *MockUserUsecase) UpdateUser(ctx context.Context, req usecase.UpdateUserRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

func setupTest(t *testing.T) (*gin.Engine, *MockUserUsecase) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockUserUsecase)
	handler := NewUserHandler(mockUsecase, zaptest.NewLogger(t))

	r := gin.New()
	r.GET("/api/users", handler.ListUsers)
	r.GET("/api/users/:id", handler.GetUser)
	r.PUT("/api/users/:id", handler.UpdateUser)
	return r, mockUsecase
}

func TestListUsers(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("ListUsers", mock.Anything).Return(&usecase.ListUsersResponse{
			Users: []usecase.ListedUser{
				{ID: 1, Username: "alice", FirstName: strPtr("Alice")},
				{ID: 2, Username: "bob"},
			},
		}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/users", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp []UserListItem
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
		assert.Equal(t, int64(1), resp[0].ID)
		assert.Equal(t, "alice", resp[0].Username)
		assert.Nil(t, resp[1].FirstName)
	})

	t.Run("EmptyList", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("ListUsers", mock.Anything).Return(&usecase.ListUsersResponse{Users: []usecase.ListedUser{}}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/users", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("InternalError", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("ListUsers", mock.Anything).Return(nil, errors.New("db down"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/users", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 1}).Return(&usecase.GetUserResponse{
			ID:        1,
			Username:  "alice",
			FirstName: strPtr("Alice"),
			Email:     "alice@example.com",
			IsActive:  true,
		}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/users/1", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp UserDetailResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, "alice@example.com", resp.Email)
		assert.True(t, resp.IsActive)
		assert.Nil(t, resp.LastName)
	})

	t.Run("NotFound", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 42}).
			Return(nil, pkgerrors.NewNotFoundError("user", "user with id 42 not found"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/users/42", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "not_found", resp.Error)
	})

	t.Run("NonNumericID", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/users/abc", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUsecase.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("Success_NoContent", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("UpdateUser", mock.Anything, mock.MatchedBy(func(req usecase.UpdateUserRequest) bool {
			return req.ID == 1 && req.Username != nil && *req.Username == "newname" &&
				req.FirstName == nil && req.LastName == nil && req.Email == nil
		})).Return(nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("PUT", "/api/users/1", bytes.NewBufferString(`{"username":"newname"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		mockUsecase.AssertExpectations(t)
	})

	t.Run("InvalidEmail_UnprocessableEntity", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("PUT", "/api/users/1", bytes.NewBufferString(`{"email":"not-an-email"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUsecase.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	})

	t.Run("MalformedBody_UnprocessableEntity", func(t *testing.T) {
		r, _ := setupTest(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("PUT", "/api/users/1", bytes.NewBufferString(`{broken`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		mockUsecase.On("UpdateUser", mock.Anything, mock.Anything).
			Return(pkgerrors.NewNotFoundError("user", "user with id 42 not found"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest("PUT", "/api/users/42", bytes.NewBufferString(`{"username":"ghost"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
