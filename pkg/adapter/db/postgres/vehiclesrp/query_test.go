// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package vehiclesrp

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPriceValueKeepsScale(t *testing.T) {
	for _, text := range []string{
		"79999.00",
		"39999.99",
		"0.1",
		"0",
		"123456789.123456789",
	} {
		d, err := decimal.NewFromString(text)
		require.NoError(t, err)
		v, err := price{d}.Value()
		require.NoError(t, err)
		require.Equal(t, text, v)
	}
}

func TestPriceScanThenValue(t *testing.T) {
	var p price
	require.NoError(t, p.Scan("79999.00"))
	v, err := p.Value()
	require.NoError(t, err)
	require.Equal(t, "79999.00", v)
}
