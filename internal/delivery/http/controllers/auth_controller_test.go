package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"seatledger/internal/delivery/http/helpers"
	"seatledger/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	createErr    error
	createResult *domain.User
	lastUsername string
	lastPassword string
	lastRole     string
	authErr      error
	authUser     *domain.User
	authToken    string
	getErr       error
	getResult    *domain.User
}

func (f *fakeUserService) CreateUser(ctx context.Context, username, password, role string) (*domain.User, error) {
	f.lastUsername = username
	f.lastPassword = password
	f.lastRole = role
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResult, nil
}

func (f *fakeUserService) Authenticate(ctx context.Context, username, password string) (*domain.User, string, error) {
	f.lastUsername = username
	f.lastPassword = password
	if f.authErr != nil {
		return nil, "", f.authErr
	}
	return f.authUser, f.authToken, nil
}

func (f *fakeUserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getResult, nil
}

func TestAuthController_Login(t *testing.T) {
	alice := &domain.User{ID: 3, Username: "alice", Role: domain.RoleAdmin}

	tests := []struct {
		name         string
		body         string
		svc          *fakeUserService
		wantStatus   int
		wantBodyCode string
	}{
		{
			name:       "success",
			body:       `{"username":"alice","password":"s3cret"}`,
			svc:        &fakeUserService{authUser: alice, authToken: "tok"},
			wantStatus: http.StatusOK,
		},
		{
			name:         "wrong credentials",
			body:         `{"username":"alice","password":"wrong"}`,
			svc:          &fakeUserService{authErr: domain.ErrInvalidCredentials},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "missing password",
			body:         `{"username":"alice"}`,
			svc:          &fakeUserService{},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "invalid json",
			body:         `{`,
			svc:          &fakeUserService{},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := NewAuthController(testLogger, tt.svc)
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			controller.Login(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBodyCode != "" {
				envelope := decodeEnvelope(t, rr)
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
				return
			}
			assert.Contains(t, rr.Body.String(), `"token":"tok"`)
			assert.Contains(t, rr.Body.String(), `"username":"alice"`)
			// Credentials never leak into the response.
			assert.NotContains(t, rr.Body.String(), "password")
		})
	}
}

func TestAuthController_SignUp(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svc        *fakeUserService
		wantStatus int
	}{
		{
			name:       "success",
			body:       `{"username":"bob","password":"pw","role":"viewer"}`,
			svc:        &fakeUserService{createResult: &domain.User{ID: 4, Username: "bob", Role: domain.RoleViewer}},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate username",
			body:       `{"username":"bob","password":"pw","role":"viewer"}`,
			svc:        &fakeUserService{createErr: domain.ErrUserExists},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "bad role",
			body:       `{"username":"bob","password":"pw","role":"owner"}`,
			svc:        &fakeUserService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing username",
			body:       `{"password":"pw","role":"viewer"}`,
			svc:        &fakeUserService{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := NewAuthController(testLogger, tt.svc)
			req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			controller.SignUp(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "bob", tt.svc.lastUsername)
				assert.Equal(t, domain.RoleViewer, tt.svc.lastRole)
			}
		})
	}
}
