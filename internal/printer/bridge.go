package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Bridge writes to a BLE printer through a network print bridge that owns
// the radio. Each chunk is one POST to <baseURL>/write.
type Bridge struct {
	client  *http.Client
	baseURL string
}

type writeRequest struct {
	PeripheralID    string `json:"peripheralId"`
	ServiceID       string `json:"serviceId"`
	Characteristic  string `json:"characteristic"`
	Data            []byte `json:"data"`
	WithoutResponse bool   `json:"withoutResponse"`
}

type writeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewBridge(baseURL string) *Bridge {
	return &Bridge{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (b *Bridge) Write(ctx context.Context, p Peripheral, data []byte, chunkSize int) error {
	for i, chunk := range Chunks(data, chunkSize) {
		req := writeRequest{
			PeripheralID:    p.PeripheralID,
			ServiceID:       p.ServiceID,
			Characteristic:  p.Transfer,
			Data:            chunk,
			WithoutResponse: true,
		}
		if err := b.send(ctx, req); err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
	}
	return nil
}

func (b *Bridge) send(ctx context.Context, req writeRequest) error {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal write request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/write", bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send write request: %w", err)
	}
	defer resp.Body.Close()

	var writeResp writeResponse
	if err := json.NewDecoder(resp.Body).Decode(&writeResp); err != nil {
		return fmt.Errorf("failed to decode bridge response: %w", err)
	}

	if !writeResp.Success {
		return fmt.Errorf("write failed: %s", writeResp.Message)
	}

	return nil
}
