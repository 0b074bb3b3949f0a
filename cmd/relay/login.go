package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/relaygate/relay/config"
	"github.com/relaygate/relay/sso"
)

func newLoginCommand() *cobra.Command {
	var useSSO bool
	var orgID, connectionID, loginHint string

	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Log in to Relay",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoAuth: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if useSSO {
				return ssoLogin(sso.Options{
					OrganizationID: orgID,
					ConnectionID:   connectionID,
					LoginHint:      loginHint,
				})
			}
			return interactiveLogin()
		},
	}
	cmd.Flags().BoolVar(&useSSO, "sso", false, "Authenticate through your organization's identity provider")
	cmd.Flags().StringVar(&orgID, "org", "", "Organization whose SSO connection to use")
	cmd.Flags().StringVar(&connectionID, "connection", "", "Specific SSO connection id")
	cmd.Flags().StringVar(&loginHint, "hint", "", "Account hint passed to the identity provider")
	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear session state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Local session state is cleared even when the backend call
			// fails; a dead session shouldn't trap the user.
			if err := sessions.SignOut(ctx); err != nil && !quiet {
				fmt.Println("Warning: backend sign-out failed; local session cleared anyway")
			}
			return writeUserToken("")
		},
	}
}

// ssoLogin drives the redirect flow: a loopback listener receives the
// provider's redirect-back and hands its query to the flow controller.
func ssoLogin(opts sso.Options) error {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return errors.Wrap(err, "failed to start callback listener")
	}
	defer listener.Close()

	opts.RedirectURI = fmt.Sprintf("http://%s/callback", listener.Addr())

	controller := sso.NewController(relay, browserNavigator{}, sessions)

	type callback struct{ err error }
	done := make(chan callback, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		err := controller.HandleCallback(r.Context(), r.URL.Query())
		if err != nil {
			http.Error(w, "Login failed: "+err.Error(), http.StatusBadRequest)
		} else {
			fmt.Fprintln(w, "Logged in. You can close this tab and return to the terminal.")
		}
		done <- callback{err: err}
	})
	server := &http.Server{Handler: mux}
	go func() { _ = server.Serve(listener) }()
	defer server.Shutdown(context.Background())

	if err := controller.Initiate(ctx, opts); err != nil {
		return err
	}
	if !quiet {
		fmt.Println("Waiting for the identity provider to redirect back...")
	}

	select {
	case cb := <-done:
		if cb.err != nil {
			return errors.WithMessage(cb.err, "SSO login failed; try 'relay login' for password login")
		}
	case <-time.After(5 * time.Minute):
		return errors.New("timed out waiting for the SSO callback")
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := writeUserToken(relay.Token()); err != nil {
		return err
	}
	if !quiet {
		user := sessions.User()
		if user != nil {
			fmt.Printf("Successfully logged in as %q\n", user.Email)
		}
	}
	return nil
}

// browserNavigator opens URLs in the system browser, falling back to printing
// the URL for the user to open manually.
type browserNavigator struct{}

func (browserNavigator) Navigate(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		fmt.Println("Open this URL to log in:", color.BlueString(url))
	}
	return nil
}

// writeUserToken persists the session credential to the config file.
func writeUserToken(token string) error {
	path := config.GetFilePath()
	cfg, err := config.ReadConfigFromFile(path)
	if err != nil {
		return err
	}
	cfg.UserToken = token
	return config.WriteConfig(cfg, path)
}
