package main

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/relaygate/relay/config"
)

const userTokenHelp = "Run 'relay login' or 'relay signup' to obtain a session token."

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config <command>",
		Short:       "Manage Relay configuration",
		Annotations: map[string]string{annotationNoAuth: "true"},
	}
	cmd.AddCommand(newConfigListCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigTestCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	return cmd
}

func newConfigListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := reflect.TypeOf(*relayConfig)
			for i := 0; i < t.NumField(); i++ {
				field := t.Field(i)
				propertyKey := trimTag(field.Tag.Get("yaml"))
				value := reflect.ValueOf(relayConfig).Elem().FieldByName(field.Name).String()
				if value == "" {
					value = "(unset)"
				}
				fmt.Printf("%s = %s\n", propertyKey, color.BlueString(value))
			}
			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <property> <value>",
		Short: "Set a specific config setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configFilePath := config.GetFilePath()
			cfg, err := config.ReadConfigFromFile(configFilePath)
			if err != nil {
				return err
			}

			t := reflect.TypeOf(*cfg)
			found := false
			for i := 0; i < t.NumField(); i++ {
				field := t.Field(i)
				if trimTag(field.Tag.Get("yaml")) == args[0] {
					found = true
					// The following code assumes all values are strings and
					// will not work with non-string values.
					reflect.ValueOf(cfg).Elem().FieldByName(field.Name).SetString(strings.TrimSpace(args[1]))
				}
			}
			if !found {
				return errors.Errorf("Unknown config property: %q", args[0])
			}

			return config.WriteConfig(cfg, configFilePath)
		},
	}
}

func newConfigTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Validate configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Relay Configuration Test")
			fmt.Println("")

			// Create a default config by reading in whatever config currently exists.
			cfg, err := config.New()
			if err != nil {
				return err
			}

			if len(cfg.UserToken) == 0 {
				fmt.Println("You don't have a user token configured.")
				fmt.Println(userTokenHelp)
				return errors.New("user token not configured")
			}

			user, err := relay.WhoAmI(ctx)
			if err != nil {
				fmt.Println("There was a problem authenticating with your user token.")
				fmt.Println(userTokenHelp)
				return err
			}

			fmt.Printf("Authenticated as user: %q (%s)\n\n", user.Email, user.ID)

			if cfg.DefaultOrg == "" {
				fmt.Println("No default organization set.")
			} else {
				fmt.Printf("Verifying default organization: %q\n\n", cfg.DefaultOrg)
				directory.Load(ctx)
				if directory.FindByRef(cfg.DefaultOrg) == nil {
					fmt.Println("There was a problem verifying your default organization.")
					fmt.Printf("Set the default organization using the command %s\n", color.BlueString("relay config set default_org <organization>"))
					return errors.Errorf("you are not a member of %q", cfg.DefaultOrg)
				}

				fmt.Printf("Default organization verified: %q\n", cfg.DefaultOrg)
			}

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <property>",
		Short: "Unset a specific config setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configFilePath := config.GetFilePath()
			cfg, err := config.ReadConfigFromFile(configFilePath)
			if err != nil {
				return err
			}

			t := reflect.TypeOf(*cfg)
			found := false
			for i := 0; i < t.NumField(); i++ {
				field := t.Field(i)
				if trimTag(field.Tag.Get("yaml")) == args[0] {
					found = true
					reflect.ValueOf(cfg).Elem().FieldByName(field.Name).Set(reflect.Zero(field.Type))
				}
			}
			if !found {
				return errors.Errorf("Unknown config property: %q", args[0])
			}

			fmt.Printf("Unset %s\n", args[0])
			return config.WriteConfig(cfg, configFilePath)
		},
	}
}

// trimTag removes tag options such as "omitempty", leaving the property name.
func trimTag(tag string) string {
	if i := strings.Index(tag, ","); i != -1 {
		return tag[:i]
	}
	return tag
}
