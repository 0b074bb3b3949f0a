package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/relaygate/relay/client"
	"github.com/relaygate/relay/config"
	"github.com/relaygate/relay/logger"
	"github.com/relaygate/relay/orgs"
	"github.com/relaygate/relay/session"
	"github.com/relaygate/relay/storage"
)

// These variables are set externally by the linker.
var (
	version = "dev"
	commit  = "unknown"
)

var relay *client.Client
var relayConfig *config.Config
var state *storage.Store
var sessions *session.Store
var directory *orgs.Directory
var orgSwitch *orgs.Switch
var ctx context.Context
var quiet bool
var format string

const (
	formatJSON = "json"

	// Annotation opting a command out of the logged-in requirement.
	annotationNoAuth = "relay.noauth"
)

var jsonOut *json.Encoder
var tableOut *tabwriter.Writer

func main() {
	jsonOut = json.NewEncoder(os.Stdout)
	jsonOut.SetIndent("", "    ")

	tableOut = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer tableOut.Flush()

	var cancel context.CancelFunc
	ctx, cancel = withSignal(context.Background())
	defer cancel()

	root := &cobra.Command{
		Use:           "relay <command>",
		Short:         "Relay is the control panel for the Relay AI gateway.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       makeVersion(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if relayConfig, err = config.New(); err != nil {
				return err
			}
			logger.Init(logger.Options{Level: relayConfig.LogLevel, Pretty: true})

			if relayConfig.UserToken == "" && !skipsAuth(cmd) {
				if err := interactiveLogin(); err != nil {
					return err
				}
			}

			if relay, err = client.NewClient(relayConfig.Address, relayConfig.UserToken); err != nil {
				return err
			}

			state = storage.NewStore(config.StatePath())
			sessions, directory, orgSwitch = wireSession(relay, state)

			// Resolving the session loads the directory and restores the
			// persisted organization selection through the switch, so a
			// selection the user no longer holds falls back before any
			// tenant-scoped request is issued.
			if !skipsAuth(cmd) {
				sessions.Start(ctx)
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode")
	root.PersistentFlags().StringVar(&format, "format", "", "Output format")

	root.AddCommand(newAccountCommand())
	root.AddCommand(newConfigCommand())
	root.AddCommand(newHistoryCommand())
	root.AddCommand(newKeyCommand())
	root.AddCommand(newLoginCommand())
	root.AddCommand(newLogoutCommand())
	root.AddCommand(newModelCommand())
	root.AddCommand(newOrganizationCommand())
	root.AddCommand(newRunCommand())
	root.AddCommand(newSignupCommand())
	root.AddCommand(newTokenCommand())
	root.AddCommand(newUsageCommand())
	root.AddCommand(newVersionCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %+v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}

// wireSession connects the session store to the organization directory and
// switch. Signing in loads the directory and restores the organization
// selection through the switch, the only writer of the tenant header; signing
// out resets both.
func wireSession(c *client.Client, st *storage.Store) (*session.Store, *orgs.Directory, *orgs.Switch) {
	sess := session.NewStore(c, st)
	dir := orgs.NewDirectory(c)
	sw := orgs.NewSwitch(st, c)

	sess.OnSignedIn(func(ctx context.Context) {
		dir.Load(ctx)
		if err := sw.RestoreSelection(dir.Memberships()); err != nil {
			log := logger.Get()
			log.Warn().Err(err).Msg("failed to restore organization selection")
		}
	})
	sess.OnSignedOut(func() {
		dir.Reset()
		sw.Reset()
	})
	return sess, dir, sw
}

// skipsAuth reports whether the command or any of its parents opts out of the
// logged-in requirement (login, signup, config, ...).
func skipsAuth(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[annotationNoAuth]; ok {
			return true
		}
	}
	return false
}

// Return a cancelable context which ends on signal interrupt.
//
// The first interrupt cancels the context, allowing callers to terminate
// gracefully. Upon receiving a second interrupt the process is terminated
// with exit code 130 (128 + SIGINT)
func withSignal(parent context.Context) (context.Context, context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(parent)

	// In most cases this routine will leak due to the lack of a second
	// signal. That's OK since this is expected to last for the life of the
	// process.
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
			// Do nothing.
		}
		<-sigChan
		os.Exit(130)
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

// interactiveLogin prompts for credentials, validates them against the
// backend, and persists the resulting session token.
func interactiveLogin() error {
	fmt.Println("You are not logged in.")
	email, err := prompt("Email: ")
	if err != nil {
		return err
	}
	password, err := prompt("Password: ")
	if err != nil {
		return err
	}
	return passwordLogin(email, password)
}

func passwordLogin(email, password string) error {
	c, err := client.NewClient(relayConfig.Address, "")
	if err != nil {
		return err
	}

	sess, err := c.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	relayConfig.UserToken = sess.Token
	if err := config.WriteConfig(relayConfig, config.GetFilePath()); err != nil {
		return err
	}
	if !quiet {
		fmt.Printf("Successfully logged in as %q\n", sess.User.Email)
	}
	return nil
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// confirm prompts the user for a yes/no answer and defaults to no.
func confirm(text string) (bool, error) {
	fmt.Print(text, " [y/N]: ")
	reader := bufio.NewReader(os.Stdin)
	for {
		input, err := reader.ReadString('\n')
		if err != nil {
			return false, err
		}
		input = strings.ToLower(strings.TrimSuffix(input, "\n"))
		switch input {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		default:
			fmt.Print("Please type 'yes' or 'no': ")
		}
	}
}
