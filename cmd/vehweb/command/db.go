// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/vehweb/pkg/adapter/config"
	"github.com/momeni/vehweb/pkg/adapter/db/postgres"
	"github.com/momeni/vehweb/pkg/adapter/db/postgres/vehiclesrp"
	"github.com/momeni/vehweb/pkg/core/log"
	"github.com/momeni/vehweb/pkg/core/repo"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or update the vehicles and batteries tables",
	RunE:  initDatabase,
}

var dbCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the vehicles and batteries tables exist",
	RunE:  checkDatabase,
}

// withConn loads the configuration, creates a connections pool, and
// runs f with an acquired connection.
func withConn(f func(context.Context, *postgres.Conn) error) error {
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
	return p.Conn(ctx, func(ctx context.Context, cc repo.Conn) error {
		return f(ctx, cc.(*postgres.Conn))
	})
}

func initDatabase(_ *cobra.Command, _ []string) error {
	err := withConn(func(ctx context.Context, cc *postgres.Conn) error {
		if err := vehiclesrp.InitSchema(ctx, cc); err != nil {
			return err
		}
		return vehiclesrp.CheckSchema(ctx, cc)
	})
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	log.Info(context.Background(), "database schema is initialized")
	return nil
}

func checkDatabase(_ *cobra.Command, _ []string) error {
	err := withConn(vehiclesrp.CheckSchema[*postgres.Conn])
	if err != nil {
		return fmt.Errorf("checking schema: %w", err)
	}
	log.Info(context.Background(), "database schema is usable")
	return nil
}

func init() {
	dbCmd.AddCommand(dbInitCmd, dbCheckCmd)
	rootCmd.AddCommand(dbCmd)
}
