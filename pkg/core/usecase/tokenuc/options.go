// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tokenuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the token use case.
type Option func(uc *UseCase) error

// WithIssuer option configures the issuer self-identifier claim.
// This option may be passed to the New() function.
func WithIssuer(issuer string) Option {
	return func(uc *UseCase) error {
		if issuer == "" {
			return errors.New("issuer must be non-empty")
		}
		if uc.issuer != "" {
			return errors.New("issuer is already configured")
		}
		uc.issuer = issuer
		return nil
	}
}

// WithValidity option configures the validity window of the issued
// tokens, that is, the duration between the issued-at and expiry
// claims. This option may be passed to the New() function.
func WithValidity(d time.Duration) Option {
	return func(uc *UseCase) error {
		if d <= 0 {
			return fmt.Errorf("validity (%d) is not positive", d)
		}
		if uc.validity != 0 {
			return errors.New("validity is already configured")
		}
		uc.validity = d
		return nil
	}
}

// WithClock option overrides the wall clock which is consulted for
// the issued-at and expiry claims. It is mainly useful for tests
// which need to pin the issuance instant.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock must be non-nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}
