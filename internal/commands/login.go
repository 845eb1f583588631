package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"jarvis/internal/backend/googlecalendar"
	"jarvis/internal/config"
	"jarvis/internal/exitcode"
	"jarvis/internal/service"
)

const (
	// OAuth callback timeout
	oauthCallbackTimeout = 5 * time.Minute

	// Token exchange timeout
	tokenExchangeTimeout = 30 * time.Second

	// Starting port for OAuth callback server
	oauthStartPort = 8085

	// Max port attempts
	oauthMaxPortAttempts = 5
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd authorizes read-only calendar access and stores the token.
type LoginCmd struct{}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Authorize Google Calendar access" }
func (c *LoginCmd) Usage() string      { return "jarvis login [common flags]" }
func (c *LoginCmd) Needs() Requirement { return NeedsNothing }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svcs *service.Services, args []string, out, errOut io.Writer) int {
	if !cfg.HasOAuthClient() {
		printOAuthSetup(cfg, errOut)
		return exitcode.ConfigError
	}

	if cfg.HasToken() && isTokenValid(cfg) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	oauthConfig, err := loadOAuthConfig(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}

	port, listener, err := findAvailablePort()
	if err != nil {
		fmt.Fprintf(errOut, "error: could not bind to local port for OAuth callback\n")
		return exitcode.ConfigError
	}
	defer listener.Close()

	oauthConfig.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)
	verifier := oauth2.GenerateVerifier()
	authURL := oauthConfig.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)

	fmt.Fprintln(errOut, "Open this URL in your browser:")
	fmt.Fprintln(errOut, authURL)

	code, err := waitForCode(ctx, listener)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()

	token, err := oauthConfig.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to exchange code for token: %v\n", err)
		return exitcode.ConfigError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.ConfigError
	}
	if err := saveToken(cfg.TokenPath(), token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.ConfigError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func printOAuthSetup(cfg *config.Config, errOut io.Writer) {
	fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n\n", cfg.Dir)
	fmt.Fprintln(errOut, "To read your Google Calendar, Jarvis needs OAuth credentials:")
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "1. Go to https://console.cloud.google.com/apis/credentials")
	fmt.Fprintln(errOut, "2. Create a project (or select an existing one)")
	fmt.Fprintln(errOut, "3. Enable the Google Calendar API:")
	fmt.Fprintln(errOut, "   https://console.cloud.google.com/apis/library/calendar-json.googleapis.com")
	fmt.Fprintln(errOut, "4. Create an OAuth client ID of type 'Desktop app' and download the JSON")
	fmt.Fprintln(errOut, "5. Save it as:")
	fmt.Fprintf(errOut, "   %s\n", cfg.OAuthClientPath())
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "Then run 'jarvis login' again, or set calendar.service_account_file instead.")
}

func loadOAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, googlecalendar.Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// waitForCode serves the OAuth redirect on listener until it delivers an
// authorization code, ctx is cancelled, or the callback times out.
func waitForCode(ctx context.Context, listener net.Listener) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			select {
			case errCh <- fmt.Errorf("no code in callback"):
			default:
			}
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Jarvis is authorized</h1><p>You may close this window.</p></body></html>")
		select {
		case codeCh <- code:
		default:
		}
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case errCh <- err:
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-time.After(oauthCallbackTimeout):
		return "", fmt.Errorf("oauth callback timed out")
	case <-ctx.Done():
		return "", fmt.Errorf("cancelled")
	}
}

// findAvailablePort tries to find an available port starting from oauthStartPort.
func findAvailablePort() (int, net.Listener, error) {
	for i := 0; i < oauthMaxPortAttempts; i++ {
		port := oauthStartPort + i
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, fmt.Errorf("no available port found")
}

// isTokenValid reports whether token.json holds a refresh token that can
// still mint an access token.
func isTokenValid(cfg *config.Config) bool {
	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return false
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return false
	}
	if token.RefreshToken == "" {
		return false
	}

	oauthConfig, err := loadOAuthConfig(cfg)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = oauthConfig.TokenSource(ctx, &token).Token()
	return err == nil
}

// saveToken saves an OAuth token to a file with mode 0600.
func saveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
