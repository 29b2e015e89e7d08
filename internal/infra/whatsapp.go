package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WhatsAppMessage is sent to the gateway sidecar, which holds the device
// session and relays the message.
type WhatsAppMessage struct {
	Numero   string `json:"numero"`
	Mensagem string `json:"mensagem"`
}

// WhatsAppResponse is returned by the gateway after the relay attempt.
type WhatsAppResponse struct {
	Status    string `json:"status"` // "ok" | "erro"
	MessageID string `json:"message_id,omitempty"`
	Detalhe   string `json:"detalhe,omitempty"`
}

// WhatsAppClient delegates message delivery to the gateway sidecar over
// HTTP. Keeping the session handling out of process isolates gateway
// failures from the core backend.
type WhatsAppClient struct {
	gatewayURL string
	token      string
	httpClient *http.Client
}

func NewWhatsAppClient(gatewayURL, token string) *WhatsAppClient {
	return &WhatsAppClient{
		gatewayURL: gatewayURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Enviar sends a POST to the gateway and returns its relay response.
func (c *WhatsAppClient) Enviar(ctx context.Context, msg WhatsAppMessage) (*WhatsAppResponse, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/enviar", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("whatsapp: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whatsapp: gateway returned %d", resp.StatusCode)
	}

	var result WhatsAppResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("whatsapp: decode response: %w", err)
	}
	if result.Status != "ok" {
		return &result, fmt.Errorf("whatsapp: gateway rejected message: %s", result.Detalhe)
	}
	return &result, nil
}
