// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the vehweb
// server. Commands are organized using the cobra library.
// The root command starts the web server itself, the "db" sub-command
// initializes the database tables, and the "hash" sub-command
// computes a scram password hash for provisioning a principal in the
// configuration file.
//
//	./vehweb [-c /path/of/config.yaml]     # start web server
//	./vehweb db init [-c /path/of/config.yaml]
//	./vehweb hash
package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/momeni/vehweb/pkg/adapter/config"
	"github.com/momeni/vehweb/pkg/adapter/restful/gin"
	"github.com/momeni/vehweb/pkg/adapter/restful/gin/routes"
	"github.com/momeni/vehweb/pkg/core/log"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "vehweb",
	Short: "A vehicle registry web service",
	Long: `A vehicle registry web service which exposes CRUD REST APIs
over vehicle records, each owning one battery record, secured by
bearer token authentication. The POST /auth/token endpoint issues a
signed time-boxed token for an authenticated principal and all
/vehicles endpoints require it as a bearer credential.
The core use cases and models layers are kept independent of the
third-party dependent adapters layer, interacting with them through a
series of interfaces; the adapters employ GORM for the PostgreSQL
interactions and the Gin Gonic web framework for the REST APIs.`,
	RunE: startWebServer,
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	p, err := c.ConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	var e *gin.Engine = c.Gin.NewEngine()
	if err = routes.Register(ctx, e, p, c); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	log.Info(ctx, "starting web server", slog.String("listen", c.Listen))
	if err = e.Run(c.Listen); err != nil {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
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
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default
// value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		// the default path should usually be in the /etc directory
		cfgPath = "configs/sample-config.yaml"
	}
}
