package sendgrid_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	sendgrid_client "github.com/aaravmahajanofficial/storefront-sync/pkg/sendgrid"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sendgridV3Payload struct {
	Personalizations []struct {
		To      []map[string]string `json:"to"`
		Subject string              `json:"subject"`
	} `json:"personalizations"`
	From    map[string]string `json:"from"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func newMockSendGrid(t *testing.T, status int, payload *sendgridV3Payload) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, payload))
		assert.Equal(t, "Bearer SG.test-api-key", r.Header.Get("Authorization"))
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	return server
}

func TestNewEmailService(t *testing.T) {
	// Act
	service := sendgrid_client.NewEmailService("test-api-key", "sender@example.com", "Test Sender")

	// Assert
	assert.NotNil(t, service)
	assert.NotNil(t, service.GetSendGridClient())
}

func TestEmailService_Send(t *testing.T) {
	tests := []struct {
		name          string
		msg           *sendgrid_client.Message
		status        int
		expectedError string
		contentBlocks int
	}{
		{
			name:          "Success - Text and HTML",
			msg:           &sendgrid_client.Message{To: "a@example.com", Subject: "Hello", Text: "plain", HTML: "<b>html</b>"},
			status:        http.StatusAccepted,
			contentBlocks: 2,
		},
		{
			name:          "Success - Text only",
			msg:           &sendgrid_client.Message{To: "a@example.com", Subject: "Hello", Text: "plain"},
			status:        http.StatusAccepted,
			contentBlocks: 1,
		},
		{
			name:          "Failure - SendGrid API Error (4xx)",
			msg:           &sendgrid_client.Message{To: "bad@example.com", Subject: "Hello", Text: "plain"},
			status:        http.StatusBadRequest,
			expectedError: "failed to send email, status code: 400",
			contentBlocks: 1,
		},
		{
			name:          "Failure - SendGrid API Error (5xx)",
			msg:           &sendgrid_client.Message{To: "a@example.com", Subject: "Hello", Text: "plain"},
			status:        http.StatusInternalServerError,
			expectedError: "failed to send email, status code: 500",
			contentBlocks: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var payload sendgridV3Payload
			server := newMockSendGrid(t, tc.status, &payload)

			service := sendgrid_client.NewEmailService("SG.test-api-key", "from@example.com", "Storefront")
			service.GetSendGridClient().Request.BaseURL = server.URL

			// Act
			err := service.Send(t.Context(), tc.msg)

			// Assert
			if tc.expectedError == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError)
			}

			require.Len(t, payload.Personalizations, 1)
			assert.Equal(t, tc.msg.To, payload.Personalizations[0].To[0]["email"])
			assert.Equal(t, "from@example.com", payload.From["email"])
			assert.Len(t, payload.Content, tc.contentBlocks)
		})
	}

	t.Run("Failure - Network Error", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.NotFoundHandler())
		service := sendgrid_client.NewEmailService("SG.test-api-key", "from@example.com", "Storefront")
		service.GetSendGridClient().Request.BaseURL = server.URL
		server.Close()

		// Act
		err := service.Send(t.Context(), &sendgrid_client.Message{To: "a@example.com", Subject: "x", Text: "y"})

		// Assert
		assert.Error(t, err)
	})
}

func TestEmailService_SendOrderConfirmation(t *testing.T) {
	// Arrange
	var payload sendgridV3Payload
	server := newMockSendGrid(t, http.StatusAccepted, &payload)

	service := sendgrid_client.NewEmailService("SG.test-api-key", "orders@example.com", "Storefront")
	service.GetSendGridClient().Request.BaseURL = server.URL

	order := &models.Order{
		ID: uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e"),
		Items: []models.OrderItem{
			{Name: "Shirt", Size: "M", Quantity: 2, Price: decimal.NewFromInt(100)},
		},
		Subtotal:    decimal.NewFromInt(200),
		DeliveryFee: decimal.NewFromInt(10),
		TotalAmount: decimal.NewFromInt(210),
	}

	// Act
	err := service.SendOrderConfirmation(t.Context(), "jane@example.com", "Jane", "$", order)

	// Assert
	require.NoError(t, err)
	require.Len(t, payload.Personalizations, 1)
	assert.Equal(t, "Order confirmed #0f8fad5b", payload.Personalizations[0].Subject)
	assert.Equal(t, "Jane", payload.Personalizations[0].To[0]["name"])
	require.Len(t, payload.Content, 2)
	assert.Contains(t, payload.Content[0].Value, "2 x Shirt (M) @ $100.00")
	assert.Contains(t, payload.Content[0].Value, "Total: $210.00")
	assert.Contains(t, payload.Content[1].Value, "<li>")
}
