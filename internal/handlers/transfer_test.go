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

func TestTransferHandler(t *testing.T) {
	tests := []struct {
		name               string
		url                string
		requestBody        any
		setupMocks         func(mockSvc *MockTransferer)
		expectedStatusCode int
		expectedKey        string
	}{
		{
			name:        "successful transfer",
			url:         "/wallet/transfer?senderEmail=alice@example.com&recipientEmail=bob@example.com",
			requestBody: TransferRequest{Amount: 25.0, Description: "Lunch"},
			setupMocks: func(mockSvc *MockTransferer) {
				mockSvc.EXPECT().
					Transfer(gomock.Any(), "alice@example.com", "bob@example.com", 25.0, "Lunch").
					Return(75.0, nil)
			},
			expectedStatusCode: http.StatusOK,
			expectedKey:        "newBalance",
		},
		{
			name:               "missing recipient email",
			url:                "/wallet/transfer?senderEmail=alice@example.com",
			requestBody:        TransferRequest{Amount: 25.0},
			setupMocks:         func(mockSvc *MockTransferer) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name:               "invalid request body",
			url:                "/wallet/transfer?senderEmail=alice@example.com&recipientEmail=bob@example.com",
			requestBody:        "invalid-json",
			setupMocks:         func(mockSvc *MockTransferer) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name:        "self transfer",
			url:         "/wallet/transfer?senderEmail=alice@example.com&recipientEmail=alice@example.com",
			requestBody: TransferRequest{Amount: 25.0},
			setupMocks: func(mockSvc *MockTransferer) {
				mockSvc.EXPECT().
					Transfer(gomock.Any(), "alice@example.com", "alice@example.com", 25.0, "").
					Return(0.0, services.ErrSelfTransfer)
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name:        "insufficient funds",
			url:         "/wallet/transfer?senderEmail=alice@example.com&recipientEmail=bob@example.com",
			requestBody: TransferRequest{Amount: 500.0},
			setupMocks: func(mockSvc *MockTransferer) {
				mockSvc.EXPECT().
					Transfer(gomock.Any(), "alice@example.com", "bob@example.com", 500.0, "").
					Return(0.0, services.ErrInsufficientFunds)
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name:        "recipient not found",
			url:         "/wallet/transfer?senderEmail=alice@example.com&recipientEmail=nobody@example.com",
			requestBody: TransferRequest{Amount: 25.0},
			setupMocks: func(mockSvc *MockTransferer) {
				mockSvc.EXPECT().
					Transfer(gomock.Any(), "alice@example.com", "nobody@example.com", 25.0, "").
					Return(0.0, services.ErrUserNotFound)
			},
			expectedStatusCode: http.StatusNotFound,
			expectedKey:        "error",
		},
		{
			name:        "transaction failed",
			url:         "/wallet/transfer?senderEmail=alice@example.com&recipientEmail=bob@example.com",
			requestBody: TransferRequest{Amount: 25.0},
			setupMocks: func(mockSvc *MockTransferer) {
				mockSvc.EXPECT().
					Transfer(gomock.Any(), "alice@example.com", "bob@example.com", 25.0, "").
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

			mockSvc := NewMockTransferer(ctrl)
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

			handler := NewTransferHandler(mockSvc)
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
