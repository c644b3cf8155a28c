package classlookup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"starships-server/internal/shared/config"
	"starships-server/internal/shared/errors"
	"starships-server/internal/starshipclass"
)

// Client resolves capacity from a remote class service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg config.ClassLookupConfig, logger *slog.Logger) *Client {
	logger.Debug("Initializing remote class lookup", "base_url", cfg.BaseURL, "timeout", cfg.Timeout)

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

func (c *Client) GetCapacity(ctx context.Context, classID int) (*starshipclass.Capacity, error) {
	logger := c.logger.With("component", "class_lookup_client", "operation", "get_capacity", "class_id", classID)

	url := fmt.Sprintf("%s/api/starship-class/%d/capacity", c.baseURL, classID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapInternal("failed to build class lookup request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WrapExternal("starship class service unavailable", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		logger.Debug("Remote class not found")
		return nil, errors.NotFoundf("cannot find a starship class with id=%d", classID)
	default:
		return nil, errors.WrapExternal("starship class service failed",
			fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url))
	}

	var capacity starshipclass.Capacity
	if err := json.NewDecoder(resp.Body).Decode(&capacity); err != nil {
		return nil, errors.WrapExternal("invalid response from starship class service", err)
	}

	logger.Debug("Remote capacity resolved", "fuel_capacity", capacity.FuelCapacity)
	return &capacity, nil
}
