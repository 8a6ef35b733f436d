package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSMSCarriesEverythingInQueryParams(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		_, _ = w.Write([]byte(`{"type":"success"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{SMSEndpoint: srv.URL, AuthKey: "key-123"})
	ack, err := client.SendSMS(context.Background(), SMSRequest{
		Mobile: "9876543210",
		SID:    "sid-42",
		Variables: map[string]string{
			"name":    "Asha",
			"country": "UAE",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, ack.StatusCode)
	assert.Contains(t, ack.Detail, "success")

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	q := got.URL.Query()
	assert.Equal(t, "key-123", q.Get("authkey"))
	assert.Equal(t, "9876543210", q.Get("mobile"))
	assert.Equal(t, "91", q.Get("country_code"))
	assert.Equal(t, "sid-42", q.Get("sid"))
	assert.Equal(t, "Asha", q.Get("name"))
}

func TestSendWhatsAppPostsJSONWithBasicAuth(t *testing.T) {
	var payload whatsAppPayload
	var user, pass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ = r.BasicAuth()
		_ = json.NewDecoder(r.Body).Decode(&payload)
		_, _ = w.Write([]byte(`{"queued":true}`))
	}))
	defer srv.Close()

	client := NewClient(Config{
		WhatsAppEndpoint: srv.URL,
		BasicUser:        "acct",
		BasicPassword:    "secret",
	})
	_, err := client.SendWhatsApp(context.Background(), WhatsAppRequest{
		Mobile:     "9876543210",
		TemplateID: "wid-7",
		BodyValues: map[string]string{"1": "Asha", "2": "UAE"},
	})
	require.NoError(t, err)
	assert.Equal(t, "acct", user)
	assert.Equal(t, "secret", pass)
	assert.Equal(t, "919876543210", payload.To)
	assert.Equal(t, "wid-7", payload.TemplateID)
	assert.Equal(t, "Asha", payload.BodyValues["1"])
}

func TestDispatchSurfacesProviderErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"type":"error","message":"invalid mobile"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{SMSEndpoint: srv.URL})
	ack, err := client.SendSMS(context.Background(), SMSRequest{Mobile: "123", SID: "sid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mobile")
	assert.Equal(t, http.StatusUnprocessableEntity, ack.StatusCode)
}

func TestSendValidatesRequiredFields(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.SendSMS(context.Background(), SMSRequest{SID: "sid"})
	require.Error(t, err)
	_, err = client.SendSMS(context.Background(), SMSRequest{Mobile: "987"})
	require.Error(t, err)
	_, err = client.SendWhatsApp(context.Background(), WhatsAppRequest{Mobile: "987"})
	require.Error(t, err)
}
