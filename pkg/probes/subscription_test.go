package probes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/praetorian-inc/gqlscan/pkg/probes"
	"github.com/praetorian-inc/gqlscan/pkg/registry"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionTransportProbe_Vulnerable(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err == nil {
			conn.WriteJSON(map[string]string{"type": "connection_ack"})
		}
	}))
	defer server.Close()

	p, err := probes.Registry.Create("subscription_transport", registry.Config{})
	require.NoError(t, err)

	res, err := p.Run(context.Background(), newTestClient(t), server.URL)
	require.NoError(t, err)
	require.True(t, res.Vulnerable)
}

// TestSubscriptionTransportProbe_TLSUsesClientConfig proves the probe
// shares transport.Client's InsecureSkipVerify posture: against a
// self-signed wss:// endpoint (the same population every other probe
// already reaches), the websocket dial must still succeed instead of
// failing certificate verification and silently reporting not-vulnerable.
func TestSubscriptionTransportProbe_TLSUsesClientConfig(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err == nil {
			conn.WriteJSON(map[string]string{"type": "connection_ack"})
		}
	}))
	defer server.Close()

	p, err := probes.Registry.Create("subscription_transport", registry.Config{})
	require.NoError(t, err)

	res, err := p.Run(context.Background(), newTestClient(t), server.URL)
	require.NoError(t, err)
	require.True(t, res.Vulnerable)
}

func TestSubscriptionTransportProbe_NotVulnerable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p, err := probes.Registry.Create("subscription_transport", registry.Config{})
	require.NoError(t, err)

	res, err := p.Run(context.Background(), newTestClient(t), server.URL)
	require.NoError(t, err)
	require.False(t, res.Vulnerable)
}
