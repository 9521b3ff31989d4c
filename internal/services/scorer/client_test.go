package scorer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClient_Score(t *testing.T) {
	t.Run("parses verifier payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/verify", r.URL.Path)

			err := r.ParseMultipartForm(1 << 20)
			assert.NoError(t, err)
			_, header, err := r.FormFile("image")
			assert.NoError(t, err)
			assert.Equal(t, "permit.jpg", header.Filename)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"valid": true,
				"confidence": 0.92,
				"is_permit": true,
				"extracted_text": "BUSINESS PERMIT 2025",
				"business_name": "Green Valley Farm",
				"qr_valid": true,
				"qr_data": "PERMIT-2025-0001"
			}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, 5*time.Second)
		result, err := client.Score(context.Background(), []byte("img"), "permit.jpg", nil)

		assert.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, 0.92, result.Confidence)
		assert.True(t, result.IsPermit)
		assert.Equal(t, "Green Valley Farm", result.BusinessName)
		if assert.NotNil(t, result.QRValid) {
			assert.True(t, *result.QRValid)
		}
		assert.Equal(t, "PERMIT-2025-0001", result.QRData)
		assert.Equal(t, "BUSINESS PERMIT 2025", result.Raw["extracted_text"])
	})

	t.Run("forwards the reference document", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := r.ParseMultipartForm(1 << 20)
			assert.NoError(t, err)
			_, _, err = r.FormFile("dti_image")
			assert.NoError(t, err)
			w.Write([]byte(`{"valid": true, "confidence": 0.5}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, 5*time.Second)
		_, err := client.Score(context.Background(), []byte("img"), "permit.jpg", []byte("dti"))
		assert.NoError(t, err)
	})

	t.Run("times out without retrying", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`{"valid": true}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, 50*time.Millisecond)
		_, err := client.Score(context.Background(), []byte("img"), "permit.jpg", nil)

		assert.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(server.URL, 5*time.Second)
		_, err := client.Score(context.Background(), []byte("img"), "permit.jpg", nil)
		assert.Error(t, err)
	})

	t.Run("malformed payload is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		client := NewClient(server.URL, 5*time.Second)
		_, err := client.Score(context.Background(), []byte("img"), "permit.jpg", nil)
		assert.Error(t, err)
	})
}
