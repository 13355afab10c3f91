// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package tokenuc contains the token issuance use case. Given an
// already authenticated principal, it mints a signed and time-boxed
// bearer token which the client attaches to its subsequent calls.
// Credential verification and scope assignment are responsibilities
// of the callers (see the authrs adapter).
package tokenuc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Principal is an authenticated caller: a name plus the set of scope
// strings which were granted to it by an upstream mechanism.
type Principal struct {
	Name   string
	Scopes []string
}

// UseCase represents the token issuance use case. It holds the
// symmetric signing key and the fixed claim parameters.
type UseCase struct {
	key      []byte
	issuer   string
	validity time.Duration
	now      func() time.Time
}

// New instantiates a token use case with the given signing key.
// The key is mandatory; the issuer self-identifier, the validity
// window, and the clock may be adjusted by functional options.
func New(key []byte, opts ...Option) (*UseCase, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("signing key must be non-empty")
	}
	uc := &UseCase{key: key}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.issuer == "" {
		uc.issuer = "self"
	}
	if uc.validity == 0 {
		uc.validity = 3600 * time.Second
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// Issue mints a signed bearer token for the p principal. The token
// claims are: issuer = the configured self-identifier, issued-at = the
// current time, expiry = issued-at plus the validity window, subject =
// the principal name, scope = the space-joined granted scope strings,
// and a random jti. The encoded token string is returned.
func (uc *UseCase) Issue(_ context.Context, p Principal) (string, error) {
	if p.Name == "" {
		return "", fmt.Errorf("principal name must be non-empty")
	}
	now := uc.now()
	claims := jwt.MapClaims{
		"iss":   uc.issuer,
		"iat":   jwt.NewNumericDate(now),
		"exp":   jwt.NewNumericDate(now.Add(uc.validity)),
		"sub":   p.Name,
		"scope": strings.Join(p.Scopes, " "),
		"jti":   uuid.NewString(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(uc.key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a presented bearer token string,
// checking its signature, expiry, and issuer, and returns the subject
// name and granted scopes. It is used by the restful adapter in order
// to guard the protected routes.
func (uc *UseCase) Verify(_ context.Context, token string) (*Principal, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf(
					"unexpected signing method: %v", t.Header["alg"],
				)
			}
			return uc.key, nil
		},
		jwt.WithIssuer(uc.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(uc.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("reading subject claim: %w", err)
	}
	p := &Principal{Name: sub}
	if scope, ok := claims["scope"].(string); ok && scope != "" {
		p.Scopes = strings.Split(scope, " ")
	}
	return p, nil
}
