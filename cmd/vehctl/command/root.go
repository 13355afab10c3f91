// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the vehctl commands: a terminal client for
// the vehweb REST APIs. The root command runs the interactive browse
// screen while the sub-commands expose the one-shot scripting surface.
//
//	./vehctl -s http://localhost:8080 -u alice          # browse
//	./vehctl token
//	./vehctl list
//	./vehctl get 1
//	./vehctl create -f vehicle.json
//	./vehctl update 1 -f vehicle.json
//	./vehctl delete 1
//
// The password is read from the VEHCTL_PASSWORD environment variable
// or prompted on the standard input. An already acquired token may be
// passed with the -t flag instead, skipping the token acquisition.
package command

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/momeni/vehweb/pkg/client"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	userName  string
	token     string
)

var rootCmd = &cobra.Command{
	Use:   "vehctl",
	Short: "A terminal client for the vehweb vehicle registry",
	Long: `A terminal client for the vehweb vehicle registry.
It acquires a bearer token for the named principal, fetches the
vehicles list, and renders an interactive screen which supports
creating, editing, and deleting vehicles with their owned batteries.
Every mutating call attaches the bearer token and re-fetches the list
after completion; errors are surfaced as dismissible notices without
dropping the entered form state.`,
	RunE: runBrowse,
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(
		&serverURL, "server", "s", "http://localhost:8080",
		"base URL of the vehweb server",
	)
	pf.StringVarP(&userName, "user", "u", "", "principal name")
	pf.StringVarP(
		&token, "token", "t", "", "pre-acquired bearer token",
	)
}

// newClient instantiates a REST client, either adopting the
// pre-acquired token or acquiring a fresh one with the principal
// credentials.
func newClient(ctx context.Context) (*client.Client, error) {
	c := client.New(serverURL)
	if token != "" {
		c.SetToken(token)
		return c, nil
	}
	if userName == "" {
		return nil, fmt.Errorf("either --user or --token is required")
	}
	pass, found := os.LookupEnv("VEHCTL_PASSWORD")
	if !found {
		fmt.Fprintf(os.Stderr, "password for %s: ", userName)
		r := bufio.NewReader(os.Stdin)
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("reading password: %w", err)
		}
		pass = strings.TrimRight(line, "\r\n")
	}
	if _, err := c.Authenticate(ctx, userName, pass); err != nil {
		return nil, fmt.Errorf("acquiring token: %w", err)
	}
	return c, nil
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Acquire and print a bearer token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), c.Token())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
