package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwortham/instinct/internal/domain"
)

func TestHTTPSinkPostsDispatchEvent(t *testing.T) {
	received := make(chan dispatchEvent, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev dispatchEvent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ev))
		received <- ev
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink, err := NewHTTPSink(HTTPSinkConfig{CallbackURL: srv.URL})
	require.NoError(t, err)

	sink.OnSuccess(&domain.Action{Header: domain.Header{ElementID: 5}})

	ev := <-received
	assert.Equal(t, "node.success", ev.Type)
	assert.Equal(t, uint16(5), ev.ElementID)
}

func TestHTTPSinkDisabledSendsNothing(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink, err := NewHTTPSink(HTTPSinkConfig{CallbackURL: srv.URL})
	require.NoError(t, err)
	sink.SetEnabled(false)
	sink.OnSuccess(&domain.Action{Header: domain.Header{ElementID: 1}})

	assert.False(t, called)
}

func TestNewHTTPSinkRequiresCallbackURL(t *testing.T) {
	_, err := NewHTTPSink(HTTPSinkConfig{})
	assert.Error(t, err)
}
