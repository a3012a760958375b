package qbet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/ITyukz11/payops/pkg/httpclient"
)

const TransactionsEndpoint = "/transactions"

type Client interface {
	CreateTransaction(ctx context.Context, request CreateTransactionRequest) (CreateTransactionResponse, error)
}

type client struct {
	http   httpclient.HTTPClient
	config Config
}

func NewClient(cfg Config, httpClient httpclient.HTTPClient) Client {
	return &client{config: cfg, http: httpClient}
}

// CreateTransaction performs a single ledger call. It never retries; a response that
// decodes but is not successful is returned together with ErrRejected.
func (c *client) CreateTransaction(ctx context.Context, request CreateTransactionRequest) (CreateTransactionResponse, error) {
	body, err := httpclient.EncodeJSON(request)
	if err != nil {
		return CreateTransactionResponse{}, err
	}

	resp, err := c.http.Post(ctx, c.config.BaseURL+TransactionsEndpoint, body, c.headers())
	if err != nil {
		if isTimeout(err) {
			return CreateTransactionResponse{}, ErrTimeout
		}

		return CreateTransactionResponse{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CreateTransactionResponse{}, MapStatusToError(resp.StatusCode)
	}

	var response CreateTransactionResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return CreateTransactionResponse{}, fmt.Errorf("decoding error: %w", err)
	}

	if !response.Succeeded() {
		code := -1
		if len(response.Data) > 0 {
			code = response.Data[0].Code
		}
		return response, fmt.Errorf("%w: ok=%t code=%d %s", ErrRejected, response.OK, code, response.Error)
	}

	return response, nil
}

func (c *client) headers() map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
	}

	if c.config.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.config.APIKey
	}

	return headers
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
