package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSMS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+15085551234", r.PostForm.Get("To"))
		assert.Equal(t, "+15085550000", r.PostForm.Get("From"))
		assert.Contains(t, r.PostForm.Get("Body"), "urgent call")

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM1","status":"queued"}`))
	}))
	defer srv.Close()

	c := NewClient("AC123", "secret", WithBaseURL(srv.URL))
	resp, err := c.SendSMS(context.Background(), Message{
		To:   "+15085551234",
		From: "+15085550000",
		Body: "New urgent call for Acme Paving",
	})
	require.NoError(t, err)
	assert.Equal(t, "SM1", resp.SID)
	assert.Equal(t, "queued", resp.Status)
}

func TestSendSMS_ErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":21211,"message":"Invalid 'To' number"}`))
	}))
	defer srv.Close()

	c := NewClient("AC123", "secret", WithBaseURL(srv.URL))
	_, err := c.SendSMS(context.Background(), Message{To: "bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid 'To' number")
}
