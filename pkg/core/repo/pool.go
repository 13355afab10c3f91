// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo defines the expected interfaces for the persistence
// layer, as required by the use cases layer. The database connection
// pool, connections, and transactions are abstracted so the core layer
// stays independent of the concrete database adapter. Each repository
// interface, such as Vehicles, obtains a Conn or Tx instance in order
// to run its queries on it.
package repo

import "context"

// ConnHandler is a handler function which takes a context and an
// established connection. It may run a series of queries on that
// connection. Connections are not thread-safe and may run one query
// at a time.
type ConnHandler func(context.Context, Conn) error

// Pool represents a database connection pool. Connections may be
// acquired from the pool on demand and are released back when their
// handler function returns.
type Pool interface {
	// Conn acquires a connection, passes it to the handler function,
	// and releases it after f returns. Errors of f are returned after
	// possible wrapping.
	Conn(ctx context.Context, f ConnHandler) error
}
