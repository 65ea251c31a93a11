package probes

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/praetorian-inc/gqlscan/pkg/registry"
	"github.com/praetorian-inc/gqlscan/pkg/transport"
)

func init() {
	Registry.Register("subscription_transport", func(registry.Config) (Probe, error) { return subscriptionTransportProbe{}, nil })
}

// subscriptionTransportProbe dials the endpoint's ws(s):// equivalent
// and attempts a minimal graphql-ws handshake (connection_init). A
// successful upgrade means a subscription transport exists alongside
// the HTTP endpoint and is worth enumerating separately — it isn't a
// vulnerability by itself, hence INFO severity.
type subscriptionTransportProbe struct{}

func (subscriptionTransportProbe) ID() string    { return "subscription_transport" }
func (subscriptionTransportProbe) Title() string { return "Subscription Transport Present" }
func (subscriptionTransportProbe) Description() string {
	return "GraphQL subscriptions reachable over a websocket transport"
}
func (subscriptionTransportProbe) Impact() string {
	return "Informational - a live subscription transport exists and should be enumerated separately"
}
func (subscriptionTransportProbe) Severity() Severity { return SeverityInfo }

const subscriptionHandshakeTimeout = 5 * time.Second

func (p subscriptionTransportProbe) Run(ctx context.Context, client *transport.Client, rawURL string) (Result, error) {
	wsURL, err := toWebsocketURL(rawURL)
	if err != nil {
		return Result{}, fmt.Errorf("subscription probe: %w", err)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: subscriptionHandshakeTimeout,
		Subprotocols:     []string{"graphql-transport-ws", "graphql-ws"},
		TLSClientConfig:  client.TLSConfig(),
	}

	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return result(p, false, fmt.Sprintf("curl failed to upgrade: %s", wsURL)), nil
	}
	defer conn.Close()

	// The websocket upgrade itself already confirms a subscription
	// transport; connection_init is best-effort and its (n)ack doesn't
	// change the verdict.
	conn.WriteJSON(map[string]string{"type": "connection_init"})
	conn.SetReadDeadline(time.Now().Add(subscriptionHandshakeTimeout))
	var ack map[string]any
	conn.ReadJSON(&ack)
	vulnerable := true

	return result(p, vulnerable, fmt.Sprintf("websocat %s", wsURL)), nil
}


// toWebsocketURL rewrites an http(s) endpoint URL to its ws(s)
// equivalent, the scheme GraphQL subscription transports use.
func toWebsocketURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	switch parsed.Scheme {
	case "https":
		parsed.Scheme = "wss"
	case "http":
		parsed.Scheme = "ws"
	}
	return parsed.String(), nil
}
