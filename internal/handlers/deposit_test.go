package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/walletapp/digital-wallet/internal/services"
)

func TestDepositHandler(t *testing.T) {
	tests := []struct {
		name               string
		url                string
		requestBody        any
		setupMocks         func(mockSvc *MockDepositor)
		expectedStatusCode int
		expectedKey        string
	}{
		{
			name:        "successful deposit",
			url:         "/wallet/deposit?email=john@example.com",
			requestBody: DepositRequest{Amount: 100.0, Description: "Salary"},
			setupMocks: func(mockSvc *MockDepositor) {
				mockSvc.EXPECT().
					Deposit(gomock.Any(), "john@example.com", 100.0, "Salary").
					Return(250.0, nil)
			},
			expectedStatusCode: http.StatusOK,
			expectedKey:        "newBalance",
		},
		{
			name:               "missing email",
			url:                "/wallet/deposit",
			requestBody:        DepositRequest{Amount: 100.0},
			setupMocks:         func(mockSvc *MockDepositor) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name:               "invalid request body",
			url:                "/wallet/deposit?email=john@example.com",
			requestBody:        "invalid-json",
			setupMocks:         func(mockSvc *MockDepositor) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name:        "invalid amount",
			url:         "/wallet/deposit?email=john@example.com",
			requestBody: DepositRequest{Amount: -10.0},
			setupMocks: func(mockSvc *MockDepositor) {
				mockSvc.EXPECT().
					Deposit(gomock.Any(), "john@example.com", -10.0, "").
					Return(0.0, services.ErrInvalidAmount)
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name:        "user not found",
			url:         "/wallet/deposit?email=nobody@example.com",
			requestBody: DepositRequest{Amount: 100.0},
			setupMocks: func(mockSvc *MockDepositor) {
				mockSvc.EXPECT().
					Deposit(gomock.Any(), "nobody@example.com", 100.0, "").
					Return(0.0, services.ErrUserNotFound)
			},
			expectedStatusCode: http.StatusNotFound,
			expectedKey:        "error",
		},
		{
			name:        "transaction failed",
			url:         "/wallet/deposit?email=john@example.com",
			requestBody: DepositRequest{Amount: 100.0},
			setupMocks: func(mockSvc *MockDepositor) {
				mockSvc.EXPECT().
					Deposit(gomock.Any(), "john@example.com", 100.0, "").
					Return(0.0, services.ErrTransactionFailed)
			},
			expectedStatusCode: http.StatusInternalServerError,
			expectedKey:        "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockDepositor(ctrl)
			tt.setupMocks(mockSvc)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, _ = json.Marshal(v)
			}

			req := httptest.NewRequest(http.MethodPost, tt.url, bytes.NewReader(bodyBytes))
			rr := httptest.NewRecorder()

			handler := NewDepositHandler(mockSvc)
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatusCode, rr.Code)

			var resp map[string]interface{}
			err := json.NewDecoder(rr.Body).Decode(&resp)
			assert.NoError(t, err)

			_, ok := resp[tt.expectedKey]
			assert.True(t, ok, "response should contain key %s", tt.expectedKey)
		})
	}
}
