// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram exports the expected interfaces for Salted Challenge
// Response Authentication Mechanism (SCRAM) hashing. For the
// corresponding implementation, check the adapter layer.
// In this project, principal passwords are provisioned in the
// configuration file as scram hash strings instead of plaintext and
// the token issuance endpoint verifies the presented basic-auth
// credentials against them, so a leaked configuration file does not
// leak the passwords themselves.
package scram

// Hasher represents the expectations from a SCRAM hasher
// implementation which for a specific underlying hash function (e.g.,
// SHA1 or SHA256) computes the storedKey and serverKey values from the
// relevant pass, salt, and iters arguments, representing password,
// random salt value, and hashing iterations count. A PBKDF2 algorithm
// is computed in order to slow down a dictionary attack as detailed
// in RFC 5802.
type Hasher interface {
	// Hash computes a hash string following the standard scram hash
	// format, so it can be stored and used later for authentication.
	//
	// The pass argument must be non-empty. The given password will be
	// normalized according to the SASLprep profile (defined by
	// RFC 4013) of the stringprep algorithm and any failure in that
	// normalization returns an error.
	//
	// The salt must contain a base64 encoding of the desired salt
	// bytes, otherwise, if an empty value is passed, a random salt
	// will be generated and used instead. The iters must be at least
	// equal to 4096; the RFC 7677 recommends 15000 or more.
	//
	// In absence of errors, a hashed string will be returned which
	// conforms to the following format, consisting only of ASCII
	// printable letters.
	//
	//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
	Hash(pass, salt string, iters int) (string, error)

	// Verify recomputes the stored key for the presented pass password
	// using the salt and iterations count which are embedded in the
	// hashed string and compares it, in constant time, with the
	// embedded stored key. It returns nil if they match, a
	// cerr.Authentication error if they do not, and other errors if
	// the hashed string cannot be parsed at all.
	Verify(pass, hashed string) error
}
