// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/momeni/vehweb/pkg/core/usecase/vehicleuc"
	"github.com/spf13/cobra"
)

var reqFile string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Fetch and print all vehicles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		vs, err := c.List(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), vs)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch and print one vehicle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vid, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		v, err := c.Get(cmd.Context(), vid)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), v)
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a vehicle from a JSON payload file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		req, err := loadRequest()
		if err != nil {
			return err
		}
		c, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		v, err := c.Create(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), v)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a vehicle in place from a JSON payload file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vid, err := parseID(args[0])
		if err != nil {
			return err
		}
		req, err := loadRequest()
		if err != nil {
			return err
		}
		c, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		v, err := c.Update(cmd.Context(), vid, req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), v)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a vehicle and print its last state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vid, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		v, err := c.Delete(cmd.Context(), vid)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), v)
	},
}

func parseID(arg string) (int64, error) {
	vid, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing id %q: %w", arg, err)
	}
	return vid, nil
}

// loadRequest reads a vehicle request payload from the -f file, or
// from the standard input when no file is named.
func loadRequest() (*vehicleuc.VehicleRequest, error) {
	var data []byte
	var err error
	if reqFile == "" || reqFile == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(reqFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	req := &vehicleuc.VehicleRequest{}
	if err := json.Unmarshal(data, req); err != nil {
		return nil, fmt.Errorf("unmarshalling payload: %w", err)
	}
	return req, nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func init() {
	for _, cmd := range []*cobra.Command{createCmd, updateCmd} {
		cmd.Flags().StringVarP(
			&reqFile, "file", "f", "",
			"JSON payload file (default: standard input)",
		)
	}
	rootCmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd)
}
