// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package client provides the REST API client of the vehweb server.
// It acquires a bearer token from the token endpoint and attaches it
// to every subsequent vehicles call. No retries are performed and no
// timeout is enforced beyond the defaults of the underlying HTTP
// client; a failed call reports its error and leaves the caller state
// unchanged.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/momeni/vehweb/pkg/core/cerr"
	"github.com/momeni/vehweb/pkg/core/usecase/vehicleuc"
)

// Client calls the vehweb REST APIs at a fixed base URL.
// It is safe for concurrent use after its token is acquired.
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
}

// New instantiates a client for the server at baseURL, e.g.,
// "http://localhost:8080". The trailing slash is optional.
func New(baseURL string) *Client {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return &Client{baseURL: baseURL, hc: http.DefaultClient}
}

// Token returns the currently held bearer token string.
func (c *Client) Token() string {
	return c.token
}

// SetToken replaces the held bearer token, e.g., with an externally
// acquired one.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Authenticate obtains a bearer token from the POST /auth/token
// endpoint using the name and pass basic-auth credentials and holds
// it for the subsequent calls. The token string is returned too.
func (c *Client) Authenticate(ctx context.Context, name, pass string) (string, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/auth/token", nil,
	)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(name, pass)
	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting token: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"token endpoint replied with status %d: %s",
			resp.StatusCode, string(body),
		)
	}
	c.token = string(body)
	return c.token, nil
}

// List fetches all vehicles.
func (c *Client) List(ctx context.Context) ([]vehicleuc.VehicleResponse, error) {
	var vs []vehicleuc.VehicleResponse
	err := c.call(ctx, http.MethodGet, "/vehicles", nil, &vs)
	if err != nil {
		return nil, err
	}
	return vs, nil
}

// Get fetches the vid vehicle. A cerr.NotFound error is returned if
// the server reports a 404 status.
func (c *Client) Get(ctx context.Context, vid int64) (*vehicleuc.VehicleResponse, error) {
	v := &vehicleuc.VehicleResponse{}
	err := c.call(
		ctx, http.MethodGet, fmt.Sprintf("/vehicles/%d", vid), nil, v,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Create submits a new vehicle payload and returns the response with
// the generated identities populated.
func (c *Client) Create(ctx context.Context, req *vehicleuc.VehicleRequest) (*vehicleuc.VehicleResponse, error) {
	v := &vehicleuc.VehicleResponse{}
	err := c.call(ctx, http.MethodPost, "/vehicles", req, v)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Update replaces the vid vehicle in place from the req payload.
// A cerr.NotFound error is returned if the server reports a 404
// status.
func (c *Client) Update(ctx context.Context, vid int64, req *vehicleuc.VehicleRequest) (*vehicleuc.VehicleResponse, error) {
	v := &vehicleuc.VehicleResponse{}
	err := c.call(
		ctx, http.MethodPut, fmt.Sprintf("/vehicles/%d", vid), req, v,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes the vid vehicle and returns the response shape of
// the removed records. A cerr.NotFound error is returned if the
// server reports a 404 status.
func (c *Client) Delete(ctx context.Context, vid int64) (*vehicleuc.VehicleResponse, error) {
	v := &vehicleuc.VehicleResponse{}
	err := c.call(
		ctx, http.MethodDelete, fmt.Sprintf("/vehicles/%d", vid), nil, v,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// call runs one request against the path API, serializing the
// non-nil reqBody as JSON and deserializing a success response into
// the non-nil respBody. The held bearer token is attached to every
// request. Non-2xx statuses are reported as errors, with the 404
// status translated into a cerr.NotFound error kind.
func (c *Client) call(
	ctx context.Context, method, path string, reqBody, respBody any,
) error {
	var br io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshalling request: %w", err)
		}
		br = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(
		ctx, method, c.baseURL+path, br,
	)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return cerr.NotFound(fmt.Errorf("%s %s", method, path))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf(
			"%s %s replied with status %d: %s",
			method, path, resp.StatusCode, string(body),
		)
	}
	if respBody == nil {
		return nil
	}
	if err := json.Unmarshal(body, respBody); err != nil {
		return fmt.Errorf("unmarshalling response: %w", err)
	}
	return nil
}
