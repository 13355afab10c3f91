// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/momeni/vehweb/internal/test/dbcontainer"
	"github.com/momeni/vehweb/pkg/adapter/config"
	"github.com/momeni/vehweb/pkg/adapter/db/postgres"
	"github.com/momeni/vehweb/pkg/adapter/db/postgres/vehiclesrp"
	"github.com/momeni/vehweb/pkg/adapter/hash/scram"
	"github.com/momeni/vehweb/pkg/adapter/restful/gin"
	"github.com/momeni/vehweb/pkg/adapter/restful/gin/routes"
	"github.com/momeni/vehweb/pkg/core/repo"
	"github.com/momeni/vehweb/pkg/core/usecase/vehicleuc"
	"github.com/stretchr/testify/suite"
)

const (
	testUser   = "alice"
	testPass   = "integration-pass"
	testSecret = "integration-test-secret"
)

type IntegrationGinTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
	Gin  *gin.Engine
}

func TestIntegrationGinTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationGinTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
	})
}

func (igts *IntegrationGinTestSuite) SetupSuite() {
	err := igts.Pool.Conn(
		igts.Ctx, func(ctx context.Context, c repo.Conn) error {
			return vehiclesrp.InitSchema(ctx, c.(*postgres.Conn))
		},
	)
	igts.Require().NoError(err, "failed to create schema tables")

	hash, err := scram.SHA256().Hash(testPass, "", 4096)
	igts.Require().NoError(err, "failed to hash test password")
	c := &config.Config{
		Database: config.Database{
			URL: igts.Pg.ConnectionString(),
		},
		Auth: config.Auth{
			Secret: testSecret,
			Users: []config.User{
				{
					Name:     testUser,
					Password: hash,
					Scopes:   []string{"read", "write"},
				},
			},
		},
	}
	igts.Require().NoError(
		c.ValidateAndNormalize(), "invalid test configuration",
	)

	igts.Gin = gin.New(gin.Logger(), gin.Recovery())
	igts.Require().NotNil(igts.Gin, "cannot instantiate Gin engine")
	err = routes.Register(igts.Ctx, igts.Gin, igts.Pool, c)
	igts.Require().NoError(err, "failed to register Gin routes")
}

// acquireToken obtains a bearer token with the test principal
// credentials, failing the current test on any error.
func (igts *IntegrationGinTestSuite) acquireToken() string {
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodPost, "/auth/token", nil)
	igts.Require().NoError(err, "cannot create POST request")
	req.SetBasicAuth(testUser, testPass)
	igts.Gin.ServeHTTP(w, req)
	igts.Require().Equal(200, w.Code, "token acquisition failed")
	return w.Body.String()
}

func (igts *IntegrationGinTestSuite) sendJSON(
	method, path, token string, body, res any,
) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		igts.Require().NoError(err, "cannot marshal request body")
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequest(method, path, reader)
	igts.Require().NoError(err, "cannot create %s request", method)
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Add("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	igts.Gin.ServeHTTP(w, req)
	if res != nil && w.Body.Len() > 0 {
		err := json.Unmarshal(w.Body.Bytes(), res)
		igts.NoError(err, "body is not json: %s", w.Body.String())
	}
	return w
}

func sampleVehicleReq() *vehicleuc.VehicleRequest {
	return &vehicleuc.VehicleRequest{
		Brand:           "Tesla",
		Model:           "Model 3",
		Manufacturer:    "Tesla Inc.",
		ManufactureDate: "2022-03-01T00:00:00",
		MaxSpeed:        261,
		Price:           "39999.99",
		IsABS:           true,
		Battery: vehicleuc.BatteryRequest{
			Model:           "2170L",
			Manufacturer:    "Panasonic",
			Type:            "Li-ion",
			Capacity:        82000,
			ManufactureDate: "2022-01-15T08:30:00",
			ChargeTime:      8.5,
			IsFastCharge:    true,
		},
	}
}

func (igts *IntegrationGinTestSuite) TestTokenEndpoint() {
	for _, tc := range []struct {
		name       string
		user, pass string
		code       int
	}{
		{"no credentials", "", "", 401},
		{"unknown principal", "mallory", testPass, 401},
		{"password mismatch", testUser, "wrong-pass", 401},
		{"valid credentials", testUser, testPass, 200},
	} {
		igts.Run(tc.name, func() {
			w := httptest.NewRecorder()
			req, err := http.NewRequest(
				http.MethodPost, "/auth/token", nil,
			)
			igts.Require().NoError(err, "cannot create POST request")
			if tc.user != "" {
				req.SetBasicAuth(tc.user, tc.pass)
			}
			igts.Gin.ServeHTTP(w, req)
			igts.Equal(tc.code, w.Code)
		})
	}
}

func (igts *IntegrationGinTestSuite) TestTokenClaims() {
	token := igts.acquireToken()
	igts.Equal(
		3, len(strings.Split(token, ".")),
		"token is not a three-part JWS",
	)
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(t *jwt.Token) (any, error) {
			return []byte(testSecret), nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	igts.Require().NoError(err, "token is not verifiable")
	igts.Equal("self", claims["iss"], "wrong issuer")
	igts.Equal(testUser, claims["sub"], "wrong subject")
	igts.Equal("read write", claims["scope"], "wrong scope")
	iat, ok := claims["iat"].(float64)
	igts.Require().True(ok, "missing iat claim")
	exp, ok := claims["exp"].(float64)
	igts.Require().True(ok, "missing exp claim")
	igts.Equal(float64(3600), exp-iat, "wrong validity period")
	igts.NotEmpty(claims["jti"], "missing jti claim")
}

func (igts *IntegrationGinTestSuite) TestUnauthorized() {
	for _, tc := range []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"malformed token", "not-a-jws"},
		{
			"forged token",
			"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
				"eyJpc3MiOiJzZWxmIn0.c2lnbmF0dXJl",
		},
	} {
		igts.Run(tc.name, func() {
			w := igts.sendJSON(
				http.MethodGet, "/vehicles", tc.token, nil, nil,
			)
			igts.Equal(401, w.Code)
		})
	}
}

func (igts *IntegrationGinTestSuite) TestBadRequest() {
	token := igts.acquireToken()
	igts.Run("empty body", func() {
		w := igts.sendJSON(
			http.MethodPost, "/vehicles", token, nil, nil,
		)
		igts.Equal(400, w.Code)
	})
	igts.Run("missing fields", func() {
		req := sampleVehicleReq()
		req.Brand = ""
		res := &struct {
			Brand []string
		}{}
		w := igts.sendJSON(
			http.MethodPost, "/vehicles", token, req, res,
		)
		igts.Equal(400, w.Code)
		igts.Require().Equal(1, len(res.Brand), "wrong brand errors")
		igts.Contains(res.Brand[0], "failed on the 'required' tag")
	})
	igts.Run("non-numeric id", func() {
		res := &struct {
			ID []string `json:"id"`
		}{}
		w := igts.sendJSON(
			http.MethodGet, "/vehicles/not-a-number", token, nil, res,
		)
		igts.Equal(400, w.Code)
		igts.Require().Equal(1, len(res.ID), "wrong id errors")
	})
}

func (igts *IntegrationGinTestSuite) TestVehiclesLifecycle() {
	token := igts.acquireToken()
	req := sampleVehicleReq()

	created := &vehicleuc.VehicleResponse{}
	w := igts.sendJSON(
		http.MethodPost, "/vehicles", token, req, created,
	)
	igts.Require().Equal(201, w.Code, "creation failed")
	igts.NotZero(created.ID, "vehicle identity is not assigned")
	igts.NotZero(created.Battery.ID, "battery identity is not assigned")
	igts.Equal(req.Brand, created.Brand)
	igts.Equal(req.ManufactureDate, created.ManufactureDate)
	igts.Equal(req.Price, created.Price)
	igts.Equal(req.Battery.Capacity, created.Battery.Capacity)

	vid := created.ID
	path := "/vehicles/" + strconv.FormatInt(vid, 10)

	read := &vehicleuc.VehicleResponse{}
	w = igts.sendJSON(http.MethodGet, path, token, nil, read)
	igts.Equal(200, w.Code)
	igts.Equal(created, read, "read back a different vehicle")

	var listed []vehicleuc.VehicleResponse
	w = igts.sendJSON(http.MethodGet, "/vehicles", token, nil, &listed)
	igts.Equal(200, w.Code)
	igts.Contains(listed, *created, "vehicle is not listed")

	req.Model = "Model S"
	req.Price = "79999.00"
	req.Battery.Capacity = 100000
	updated := &vehicleuc.VehicleResponse{}
	w = igts.sendJSON(http.MethodPut, path, token, req, updated)
	igts.Equal(200, w.Code)
	igts.Equal(vid, updated.ID, "vehicle identity must be preserved")
	igts.Equal(
		created.Battery.ID, updated.Battery.ID,
		"battery identity must be preserved",
	)
	igts.Equal("Model S", updated.Model)
	igts.Equal("79999.00", updated.Price)
	igts.Equal(100000, updated.Battery.Capacity)

	deleted := &vehicleuc.VehicleResponse{}
	w = igts.sendJSON(http.MethodDelete, path, token, nil, deleted)
	igts.Equal(200, w.Code)
	igts.Equal(updated, deleted, "deletion must report the last state")

	w = igts.sendJSON(http.MethodGet, path, token, nil, nil)
	igts.Equal(404, w.Code)
	igts.Zero(w.Body.Len(), "not-found body must be empty")

	w = igts.sendJSON(http.MethodDelete, path, token, nil, nil)
	igts.Equal(404, w.Code)
	igts.Zero(w.Body.Len(), "not-found body must be empty")
}

func (igts *IntegrationGinTestSuite) TestMetrics() {
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/metrics", nil)
	igts.Require().NoError(err, "cannot create GET request")
	igts.Gin.ServeHTTP(w, req)
	igts.Equal(200, w.Code)
	igts.Contains(
		w.Body.String(), "vehweb_http_requests_total",
		"requests counter is not exposed",
	)
}
