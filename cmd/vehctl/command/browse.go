// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/momeni/vehweb/pkg/client"
	"github.com/momeni/vehweb/pkg/core/usecase/vehicleuc"
	"github.com/spf13/cobra"
)

// browser holds the interactive screen state: the REST client, the
// most recently fetched vehicles list, and the terminal streams. The
// screen always reflects the server state by re-fetching the list
// after every mutation, including failed deletions whose target may
// have been removed concurrently.
type browser struct {
	c        *client.Client
	vehicles []vehicleuc.VehicleResponse
	in       *bufio.Reader
	out      io.Writer
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	c, err := newClient(cmd.Context())
	if err != nil {
		return err
	}
	b := &browser{
		c:   c,
		in:  bufio.NewReader(cmd.InOrStdin()),
		out: cmd.OutOrStdout(),
	}
	return b.run(cmd)
}

func (b *browser) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if err := b.refresh(ctx); err != nil {
		return err
	}
	for {
		b.render()
		choice, err := b.prompt(
			"[a]dd, [e]dit, [d]elete, [r]efresh, or [q]uit? ", "r",
		)
		if err != nil {
			return err
		}
		switch strings.ToLower(choice) {
		case "q", "quit":
			return nil
		case "r", "refresh":
			if err := b.refresh(ctx); err != nil {
				b.notice(err)
			}
		case "a", "add":
			b.upsert(ctx, nil)
		case "e", "edit":
			v, err := b.pick()
			if err != nil {
				b.notice(err)
				continue
			}
			b.upsert(ctx, v)
		case "d", "delete":
			v, err := b.pick()
			if err != nil {
				b.notice(err)
				continue
			}
			if _, err := b.c.Delete(ctx, v.ID); err != nil {
				b.notice(err)
			}
			// The target may be gone even when deletion failed,
			// hence, the list is re-fetched unconditionally.
			if err := b.refresh(ctx); err != nil {
				b.notice(err)
			}
		default:
			fmt.Fprintf(b.out, "unknown choice: %q\n", choice)
		}
	}
}

func (b *browser) refresh(ctx context.Context) error {
	vs, err := b.c.List(ctx)
	if err != nil {
		return fmt.Errorf("fetching vehicles: %w", err)
	}
	b.vehicles = vs
	return nil
}

func (b *browser) render() {
	if len(b.vehicles) == 0 {
		fmt.Fprintln(b.out, "No vehicles to show")
		return
	}
	fmt.Fprintf(
		b.out, "%-4s %-12s %-12s %-14s %-10s %s\n",
		"ID", "BRAND", "MODEL", "MANUFACTURER", "PRICE", "BATTERY",
	)
	for _, v := range b.vehicles {
		fmt.Fprintf(
			b.out, "%-4d %-12s %-12s %-14s %-10s %s (%d mAh)\n",
			v.ID, v.Brand, v.Model, v.Manufacturer, v.Price,
			v.Battery.Model, v.Battery.Capacity,
		)
	}
}

// pick asks for the identity of the vehicle to be edited or deleted
// and resolves it against the fetched list, so that the edit dialog
// can be seeded with the current field values.
func (b *browser) pick() (*vehicleuc.VehicleResponse, error) {
	answer, err := b.prompt("vehicle id? ", "")
	if err != nil {
		return nil, err
	}
	vid, err := strconv.ParseInt(answer, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing id %q: %w", answer, err)
	}
	for i := range b.vehicles {
		if b.vehicles[i].ID == vid {
			return &b.vehicles[i], nil
		}
	}
	return nil, fmt.Errorf("no vehicle with id %d in the list", vid)
}

// upsert runs the add or edit dialog. A nil seed starts with empty
// fields (add), while a non-nil seed presents the current values as
// defaults (edit). A failed submission keeps the dialog open with the
// entered values retained, so the user may amend and retry or cancel.
func (b *browser) upsert(ctx context.Context, seed *vehicleuc.VehicleResponse) {
	req := seedRequest(seed)
	if err := b.fillRequest(req); err != nil {
		b.notice(err)
		return
	}
	for {
		var err error
		if seed == nil {
			_, err = b.c.Create(ctx, req)
		} else {
			_, err = b.c.Update(ctx, seed.ID, req)
		}
		if err == nil {
			break
		}
		b.notice(err)
		again, perr := b.prompt("retry with amended fields [y/N]? ", "n")
		if perr != nil {
			b.notice(perr)
			return
		}
		if !strings.EqualFold(again, "y") {
			return
		}
		if err := b.fillRequest(req); err != nil {
			b.notice(err)
			return
		}
	}
	if err := b.refresh(ctx); err != nil {
		b.notice(err)
	}
}

func seedRequest(v *vehicleuc.VehicleResponse) *vehicleuc.VehicleRequest {
	if v == nil {
		return &vehicleuc.VehicleRequest{}
	}
	return &vehicleuc.VehicleRequest{
		Brand:           v.Brand,
		Model:           v.Model,
		Manufacturer:    v.Manufacturer,
		ManufactureDate: v.ManufactureDate,
		MaxSpeed:        v.MaxSpeed,
		Price:           v.Price,
		IsABS:           v.IsABS,
		Battery: vehicleuc.BatteryRequest{
			Model:           v.Battery.Model,
			Manufacturer:    v.Battery.Manufacturer,
			Type:            v.Battery.Type,
			Capacity:        v.Battery.Capacity,
			ManufactureDate: v.Battery.ManufactureDate,
			ChargeTime:      v.Battery.ChargeTime,
			IsFastCharge:    v.Battery.IsFastCharge,
		},
	}
}

// fillRequest walks all vehicle and battery fields, presenting the
// current value of each one as the default answer. An empty answer
// keeps that value, so an edit which touches one field does not
// require retyping the rest.
func (b *browser) fillRequest(req *vehicleuc.VehicleRequest) error {
	var err error
	set := func(label string, field *string) {
		if err != nil {
			return
		}
		*field, err = b.prompt(
			fmt.Sprintf("%s [%s]: ", label, *field), *field,
		)
	}
	set("brand", &req.Brand)
	set("model", &req.Model)
	set("manufacturer", &req.Manufacturer)
	set("manufacture date", &req.ManufactureDate)
	if err == nil {
		err = b.setFloat("max speed", &req.MaxSpeed)
	}
	set("price", &req.Price)
	if err == nil {
		err = b.setBool("has ABS", &req.IsABS)
	}
	set("battery model", &req.Battery.Model)
	set("battery manufacturer", &req.Battery.Manufacturer)
	set("battery type", &req.Battery.Type)
	if err == nil {
		err = b.setInt("battery capacity", &req.Battery.Capacity)
	}
	set("battery manufacture date", &req.Battery.ManufactureDate)
	if err == nil {
		err = b.setFloat("battery charge time", &req.Battery.ChargeTime)
	}
	if err == nil {
		err = b.setBool("battery fast charge", &req.Battery.IsFastCharge)
	}
	return err
}

func (b *browser) setFloat(label string, field *float64) error {
	cur := strconv.FormatFloat(*field, 'f', -1, 64)
	answer, err := b.prompt(
		fmt.Sprintf("%s [%s]: ", label, cur), cur,
	)
	if err != nil {
		return err
	}
	f, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return fmt.Errorf("parsing %s %q: %w", label, answer, err)
	}
	*field = f
	return nil
}

func (b *browser) setInt(label string, field *int) error {
	cur := strconv.Itoa(*field)
	answer, err := b.prompt(
		fmt.Sprintf("%s [%s]: ", label, cur), cur,
	)
	if err != nil {
		return err
	}
	i, err := strconv.Atoi(answer)
	if err != nil {
		return fmt.Errorf("parsing %s %q: %w", label, answer, err)
	}
	*field = i
	return nil
}

func (b *browser) setBool(label string, field *bool) error {
	cur := "n"
	if *field {
		cur = "y"
	}
	answer, err := b.prompt(
		fmt.Sprintf("%s [%s]: ", label, cur), cur,
	)
	if err != nil {
		return err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "true":
		*field = true
	case "n", "no", "false":
		*field = false
	default:
		return fmt.Errorf("parsing %s %q: expected y or n", label, answer)
	}
	return nil
}

// prompt reads one trimmed line, substituting the fallback answer for
// an empty input line.
func (b *browser) prompt(msg, fallback string) (string, error) {
	fmt.Fprint(b.out, msg)
	line, err := b.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return fallback, nil
	}
	return line, nil
}

// notice surfaces a failure without terminating the screen. The user
// acknowledges it by pressing enter and the screen resumes with its
// state intact.
func (b *browser) notice(err error) {
	fmt.Fprintf(b.out, "error: %v\npress enter to continue", err)
	_, _ = b.in.ReadString('\n')
}
