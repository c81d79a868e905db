package cli

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("HOLDEM_SERVER", "http://localhost:8080"),
		Output:    getEnvOrDefault("HOLDEM_OUTPUT", "text"),
		Verbose:   false,
	}
}

// JoinOptions selects the table a websocket connection joins. An empty
// TableID asks the server for a quick seat.
type JoinOptions struct {
	TableID  string
	Password string
	Name     string
}

// WebsocketURL derives the game endpoint from the server URL
func (c *Config) WebsocketURL(opts JoinOptions) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(c.ServerURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported server URL scheme %q", u.Scheme)
	}
	u.Path += "/ws"

	q := url.Values{}
	if opts.TableID != "" {
		q.Set("table", opts.TableID)
	}
	if opts.Password != "" {
		q.Set("password", opts.Password)
	}
	if opts.Name != "" {
		q.Set("name", opts.Name)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
