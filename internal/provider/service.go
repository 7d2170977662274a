package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2/log"

	"cmore/internal/config"
)

const serviceConfigFile = "configuration.json"

// ServiceConfig is the backend's published configuration. It names the
// API hosts every other request goes to.
type ServiceConfig struct {
	StaticAPI  string `json:"staticMbApiUrl"`
	DynamicAPI string `json:"dynamicMbApiUrl"`
	VimondAPI  string `json:"vimondApiUrl"`
}

func (s *ServiceConfig) validate() error {
	switch {
	case s.StaticAPI == "":
		return errors.New("service configuration has no staticMbApiUrl")
	case s.DynamicAPI == "":
		return errors.New("service configuration has no dynamicMbApiUrl")
	case s.VimondAPI == "":
		return errors.New("service configuration has no vimondApiUrl")
	}
	return nil
}

// ServiceConfig returns the service configuration, downloading it into the
// data directory on first use. A cached copy is used until it is deleted.
func (c *Client) ServiceConfig(ctx context.Context) (*ServiceConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.service != nil {
		return c.service, nil
	}

	path := filepath.Join(c.dataDir, serviceConfigFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		data, err = c.downloadServiceConfig(ctx, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading service configuration: %w", err)
	}

	var svc ServiceConfig
	if err := json.Unmarshal(data, &svc); err != nil {
		return nil, fmt.Errorf("parsing service configuration %s: %w", path, err)
	}
	if err := svc.validate(); err != nil {
		return nil, err
	}

	c.service = &svc
	return c.service, nil
}

func (c *Client) downloadServiceConfig(ctx context.Context, path string) ([]byte, error) {
	log.Infof("downloading service configuration from %s", c.configURL)

	data, err := c.do(ctx, http.MethodGet, c.configURL, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("downloading service configuration: %w", err)
	}

	if err := os.MkdirAll(c.dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	if err := config.WriteFileAtomic(path, data, 0644); err != nil {
		return nil, err
	}
	return data, nil
}
