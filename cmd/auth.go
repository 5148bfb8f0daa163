package cmd

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/teemow/daydash/internal/config"
	"github.com/teemow/daydash/internal/google"
)

func newAuthCmd() *cobra.Command {
	var tokenPath string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Run the Google OAuth consent flow and persist the token",
		Long: `Open the Google consent page, receive the authorization code and
persist the resulting token file.

When the configured redirect URI points at localhost, a one-shot
listener captures the code automatically. Otherwise the consent URL is
printed and the code is read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.ValidateGoogle(); err != nil {
				return err
			}
			if tokenPath == "" {
				tokenPath = cfg.TokenPath
			}

			conf := google.NewOAuthConfig(google.Credentials{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURI:  cfg.OAuthRedirectURI,
			})

			state := uuid.NewString()
			authURL := google.AuthURL(conf, state)

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			code, err := receiveCode(ctx, cmd, cfg.OAuthRedirectURI, authURL, state)
			if err != nil {
				return err
			}

			tok, err := google.Exchange(ctx, conf, code)
			if err != nil {
				return err
			}

			store := google.NewStore(conf, tokenPath)
			if err := store.Save(tok); err != nil {
				return fmt.Errorf("persisting token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", tokenPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&tokenPath, "token", "", "Token file path (default: DAYDASH_TOKEN_PATH)")
	return cmd
}

// receiveCode obtains the authorization code, either via a loopback
// listener on the redirect URI or interactively from stdin.
func receiveCode(ctx context.Context, cmd *cobra.Command, redirectURI, authURL, state string) (string, error) {
	if addr, path, ok := loopbackAddr(redirectURI); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Open the following URL in your browser:\n\n  %s\n\nWaiting for the authorization code...\n", authURL)
		return listenForCode(ctx, addr, path, state)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Open the following URL in your browser:\n\n  %s\n\nPaste the authorization code: ", authURL)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading authorization code: %w", err)
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return "", fmt.Errorf("empty authorization code")
	}
	return code, nil
}

// loopbackAddr reports whether the redirect URI points at this host and
// returns the listen address and callback path if so.
func loopbackAddr(redirectURI string) (addr, path string, ok bool) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", "", false
	}
	host := u.Hostname()
	if host != "localhost" && host != "127.0.0.1" {
		return "", "", false
	}
	port := u.Port()
	if port == "" {
		port = "80"
	}
	path = u.Path
	if path == "" {
		path = "/"
	}
	return net.JoinHostPort(host, port), path, true
}

// listenForCode serves the redirect URI once and returns the code from
// the first matching callback request.
func listenForCode(ctx context.Context, addr, path, state string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listening on %s: %w", addr, err)
	}
	defer ln.Close()

	type result struct {
		code string
		err  error
	}
	resultCh := make(chan result, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if errMsg := q.Get("error"); errMsg != "" {
			http.Error(w, "consent denied", http.StatusBadRequest)
			resultCh <- result{err: fmt.Errorf("consent denied: %s", errMsg)}
			return
		}
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			resultCh <- result{err: fmt.Errorf("state mismatch in callback")}
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			resultCh <- result{err: fmt.Errorf("callback carried no authorization code")}
			return
		}
		fmt.Fprintln(w, "Authorization received. You can close this tab.")
		resultCh <- result{code: code}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go srv.Serve(ln)
	defer srv.Close()

	select {
	case res := <-resultCh:
		return res.code, res.err
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for authorization code: %w", ctx.Err())
	}
}
