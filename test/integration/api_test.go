package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type IntegrationTestSuite struct {
	suite.Suite
	serverCmd    *exec.Cmd
	serverCancel func()
	client       *http.Client
	baseURL      string
}

//nolint:gocognit // test setup: reasonably complex integration test bootstrap
func (s *IntegrationTestSuite) SetupSuite() {
	// Setup test server/client.
	// Behavior:
	// - If TEST_SERVER_URL is set, use it and do not attempt to start a server.
	// - If START_TEST_SERVER=true, attempt to start the server in a subprocess
	//   using `go run cmd/server/main.go` and wait until /health responds 200.
	// - Otherwise the suite is skipped.

	s.client = &http.Client{Timeout: 5 * time.Second}

	// Prefer explicit TEST_SERVER_URL
	if base := os.Getenv("TEST_SERVER_URL"); base != "" {
		s.baseURL = base
		return
	}

	// Optionally start server in subprocess (requires working environment)
	if os.Getenv("START_TEST_SERVER") == "true" {
		required := []string{"SECRET_KEY", "DB_HOST"}
		if missing := checkRequiredEnv(required); len(missing) > 0 {
			s.T().Fatalf("START_TEST_SERVER=true but required env vars missing: %v; set TEST_SERVER_URL instead or provide these env vars", missing)
		}

		cmd, cancel, err := startServerProcess()
		if err != nil {
			s.T().Fatalf("failed to start server subprocess: %v", err)
		}
		s.serverCmd = cmd
		s.serverCancel = cancel

		s.baseURL = "http://localhost:" + serverPort()
		timeoutSecs := 60
		if v := os.Getenv("TEST_SERVER_STARTUP_SECONDS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				timeoutSecs = n
			}
		}
		if ok := waitForServerHealthy(s.client, s.baseURL, timeoutSecs); !ok {
			_ = cmd.Process.Kill()
			s.T().Fatal("server did not become healthy in time")
		}
		return
	}

	s.T().Skip("set TEST_SERVER_URL or START_TEST_SERVER=true to run integration tests")
}

func serverPort() string {
	if p := os.Getenv("SERVER_PORT"); p != "" {
		return p
	}
	return "8000"
}

// checkRequiredEnv returns a slice of missing environment variable names.
func checkRequiredEnv(keys []string) []string {
	var missing []string
	for _, k := range keys {
		if os.Getenv(k) == "" {
			missing = append(missing, k)
		}
	}
	return missing
}

// startServerProcess starts the server subprocess using an explicit path to
// cmd/server/main.go and returns the started *exec.Cmd.
func startServerProcess() (*exec.Cmd, func(), error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}
	repoRoot := filepath.Join(wd, "..", "..")
	mainFile := filepath.Join(repoRoot, "cmd", "server", "main.go")
	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, "go", "run", mainFile)
	// Ensure the command runs from the repo go/ root.
	cmd.Dir = repoRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, nil, err
	}
	return cmd, cancel, nil
}

// waitForServerHealthy polls the /health endpoint until it returns 200 or
// the timeout (in seconds) elapses.
func waitForServerHealthy(client *http.Client, baseURL string, timeoutSecs int) bool {
	fmt.Fprintf(os.Stdout, "Waiting up to %ds for test server to become healthy...\n", timeoutSecs)
	deadline := time.Now().Add(time.Duration(timeoutSecs) * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequest("GET", baseURL+"/health", nil)
		resp, err := client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			if resp.Body != nil {
				resp.Body.Close()
			}
			return true
		}
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.serverCmd != nil && s.serverCmd.Process != nil {
		// Cancel the server context if available (will request graceful
		// shutdown), then wait for process to exit and kill if it doesn't.
		if s.serverCancel != nil {
			s.serverCancel()
		} else {
			_ = s.serverCmd.Process.Signal(os.Interrupt)
		}

		done := make(chan struct{})
		go func() {
			s.serverCmd.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			_ = s.serverCmd.Process.Kill()
		}
	}
}

func (s *IntegrationTestSuite) do(method, path, body, token string) (*http.Response, map[string]interface{}) {
	req, err := http.NewRequest(method, s.baseURL+path, strings.NewReader(body))
	s.Require().NoError(err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func (s *IntegrationTestSuite) TestHealthCheck() {
	resp, health := s.do(http.MethodGet, "/health", "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	// degraded is acceptable when the cache is unreachable
	assert.Contains(s.T(), []interface{}{"healthy", "degraded"}, health["status"])
}

func (s *IntegrationTestSuite) TestRegisterLoginMe() {
	email := fmt.Sprintf("it-%d@example.com", time.Now().UnixNano())
	resp, created := s.do(http.MethodPost, "/api/v1/auth/register",
		fmt.Sprintf(`{"email":%q,"full_name":"Integration","password":"password123","country":"us"}`, email), "")
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.Equal("US", created["country"])

	resp, _ = s.do(http.MethodPost, "/api/v1/auth/register",
		fmt.Sprintf(`{"email":%q,"full_name":"Integration","password":"password123"}`, email), "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, token := s.do(http.MethodPost, "/api/v1/auth/login", fmt.Sprintf(`{"email":%q,"password":"password123"}`, email), "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	access, _ := token["access_token"].(string)
	s.Require().NotEmpty(access)

	resp, me := s.do(http.MethodGet, "/api/v1/auth/me", "", access)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(email, me["email"])
}

func (s *IntegrationTestSuite) TestUnauthorized() {
	resp, body := s.do(http.MethodGet, "/api/v1/users", "", "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal("Could not validate credentials", body["message"])
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
