package spotify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// Spotify account service endpoints.
var authEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.spotify.com/authorize",
	TokenURL: "https://accounts.spotify.com/api/token",
}

// authScopes are the permissions playlist presentation needs.
var authScopes = []string{"playlist-modify-private", "playlist-read-private"}

// Authenticator runs the authorization code flow and persists the resulting
// token, so later runs refresh silently instead of prompting again.
type Authenticator struct {
	conf      *oauth2.Config
	tokenPath string
}

// NewAuthenticator creates an authenticator for the given app credentials.
// redirectURI must point at a localhost address this process can listen on.
func NewAuthenticator(clientID, clientSecret, redirectURI, tokenPath string) *Authenticator {
	return &Authenticator{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       authScopes,
			Endpoint:     authEndpoint,
		},
		tokenPath: tokenPath,
	}
}

// Client returns an HTTP client that authenticates as the user, running the
// consent flow when no usable stored token exists. Refreshed tokens are
// written back to disk.
func (a *Authenticator) Client(ctx context.Context) (*http.Client, error) {
	token, err := a.loadToken()
	if err != nil {
		token, err = a.Authorize(ctx)
		if err != nil {
			return nil, err
		}
	}

	source := a.conf.TokenSource(ctx, token)
	return oauth2.NewClient(ctx, &savingTokenSource{auth: a, source: source, last: token}), nil
}

// Authorize runs the authorization code flow: it serves the redirect URI on
// localhost, prints the consent URL for the user to open, and exchanges the
// returned code for a token.
func (a *Authenticator) Authorize(ctx context.Context) (*oauth2.Token, error) {
	redirect, err := url.Parse(a.conf.RedirectURL)
	if err != nil {
		return nil, &AuthError{Message: "invalid redirect URI", Original: err}
	}

	state, err := randomState()
	if err != nil {
		return nil, &AuthError{Message: "failed to generate state", Original: err}
	}

	type callbackResult struct {
		code string
		err  error
	}
	results := make(chan callbackResult, 1)

	// Only the first callback counts; repeats drop their result
	deliver := func(r callbackResult) {
		select {
		case results <- r:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			deliver(callbackResult{err: &AuthError{Message: "state mismatch in callback"}})
			return
		}
		if errCode := q.Get("error"); errCode != "" {
			http.Error(w, "authorization denied", http.StatusBadRequest)
			deliver(callbackResult{err: &AuthError{Message: fmt.Sprintf("authorization denied: %s", errCode)}})
			return
		}
		fmt.Fprintln(w, "Authorized. You can close this tab and return to the terminal.")
		deliver(callbackResult{code: q.Get("code")})
	})

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, &AuthError{Message: "failed to listen on redirect address", Original: err}
	}
	server := &http.Server{Handler: mux}
	go func() { _ = server.Serve(listener) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Open this URL to authorize Spotify access:\n%s\n", a.conf.AuthCodeURL(state))

	var result callbackResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result = <-results:
	}
	if result.err != nil {
		return nil, result.err
	}

	token, err := a.conf.Exchange(ctx, result.code)
	if err != nil {
		return nil, &AuthError{Message: "code exchange failed", Original: err}
	}
	if err := a.saveToken(token); err != nil {
		return nil, err
	}
	return token, nil
}

// loadToken reads the stored token. A token without a refresh token is only
// usable while still valid.
func (a *Authenticator) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(a.tokenPath)
	if err != nil {
		return nil, err
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, &AuthError{Message: "stored token is unreadable", Original: err}
	}
	if token.RefreshToken == "" && !token.Valid() {
		return nil, &AuthError{Message: "stored token expired without refresh token"}
	}
	return &token, nil
}

func (a *Authenticator) saveToken(token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(a.tokenPath), 0700); err != nil {
		return &AuthError{Message: "failed to create token directory", Original: err}
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return &AuthError{Message: "failed to encode token", Original: err}
	}
	if err := os.WriteFile(a.tokenPath, data, 0600); err != nil {
		return &AuthError{Message: "failed to write token", Original: err}
	}
	return nil
}

// savingTokenSource persists refreshed tokens so the next run skips the
// consent flow.
type savingTokenSource struct {
	auth   *Authenticator
	source oauth2.TokenSource
	mu     sync.Mutex
	last   *oauth2.Token
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.source.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || token.AccessToken != s.last.AccessToken {
		if err := s.auth.saveToken(token); err != nil {
			return nil, err
		}
		s.last = token
	}
	return token, nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
