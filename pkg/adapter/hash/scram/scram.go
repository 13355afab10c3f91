// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram presents an implementation of SCRAM-SHA-256 and
// SCRAM-SHA-1 mechanisms. See the SHA256 and SHA1 functions for their
// instantiation logic. When a mechanism for a specific underlying hash
// function is instantiated, it can be used for generation and
// verification of hash strings in the SCRAM standard format.
// Principal passwords are provisioned in the configuration file as
// such hash strings, so the configuration file never contains a
// plaintext password.
package scram

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/momeni/vehweb/pkg/core/cerr"
	"github.com/xdg-go/scram"
)

// Mechanism provides a Salted Challenge Response Authentication
// Mechanism (SCRAM) having a fixed underlying hash algorithm.
//
// It implements the github.com/momeni/vehweb/pkg/core/scram.Hasher
// interface, so it may be used in the use cases layer without any
// dependency on the actual implementation. This package relies on
// the github.com/xdg-go/scram module for the SCRAM implementation.
type Mechanism struct {
	hashGenerator scram.HashGeneratorFcn
	outLen        int // bytes
	name          string
}

// SHA1 returns a new Mechanism instance using the SHA1 as its
// underlying hash algorithm.
func SHA1() *Mechanism {
	return &Mechanism{
		hashGenerator: scram.SHA1,
		outLen:        160 / 8,
		name:          "SCRAM-SHA-1",
	}
}

// SHA256 returns a new Mechanism instance using the SHA256 as its
// underlying hash algorithm.
func SHA256() *Mechanism {
	return &Mechanism{
		hashGenerator: scram.SHA256,
		outLen:        256 / 8,
		name:          "SCRAM-SHA-256",
	}
}

// ByHash returns the Mechanism which may verify the hashed string,
// based on the mechanism name prefix which the Hash method embeds.
func ByHash(hashed string) (*Mechanism, error) {
	switch {
	case strings.HasPrefix(hashed, "SCRAM-SHA-256$"):
		return SHA256(), nil
	case strings.HasPrefix(hashed, "SCRAM-SHA-1$"):
		return SHA1(), nil
	}
	return nil, errors.New("hash names no known scram mechanism")
}

// Multi is a Hasher which hashes with the SCRAM-SHA-256 mechanism,
// but verifies hashes of any known mechanism, selected by the hash
// string prefix, so SHA-1 and SHA-256 hashes may coexist in one
// provisioned users list.
type Multi struct {
}

// Hash delegates to the SHA256 mechanism.
func (Multi) Hash(pass, salt string, iters int) (string, error) {
	return SHA256().Hash(pass, salt, iters)
}

// Verify delegates to the mechanism which the hashed string names.
func (Multi) Verify(pass, hashed string) error {
	m, err := ByHash(hashed)
	if err != nil {
		return err
	}
	return m.Verify(pass, hashed)
}

// Hash computes a hash string following the standard scram hash
// format, so it can be stored and used later for authentication.
//
// The pass argument must be non-empty. The given password will be
// normalized according to the SASLprep profile (defined by RFC 4013)
// of the stringprep algorithm and any failure in that normalization
// returns an error.
//
// The salt must contain a base64 encoding of the desired salt bytes,
// otherwise, if an empty value is passed, a random salt will be
// generated and used instead. The iters must be at least equal to
// 4096; the RFC 7677 recommends to use 15000 or more.
//
// In absence of errors, a hashed string will be returned which
// conforms to the following format.
//
//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
func (m *Mechanism) Hash(pass, salt string, iters int) (string, error) {
	switch {
	case pass == "":
		return "", errors.New("password must be non-empty")
	case iters < 4096:
		return "", fmt.Errorf("iters (%d) is less than 4096", iters)
	}
	if salt == "" {
		saltBytes := make([]byte, m.outLen)
		if _, err := rand.Read(saltBytes); err != nil {
			return "", fmt.Errorf("creating random salt: %w", err)
		}
		s := make([]byte, base64.StdEncoding.EncodedLen(m.outLen))
		base64.StdEncoding.Encode(s, saltBytes)
		salt = string(s)
	}
	sc, err := m.storedCredentials(pass, salt, iters)
	if err != nil {
		return "", fmt.Errorf("obtaining stored credentials: %w", err)
	}
	h := fmt.Sprintf(
		"%s$%d:%s$%s:%s",
		m.name,
		iters, salt,
		base64.StdEncoding.EncodeToString(sc.StoredKey),
		base64.StdEncoding.EncodeToString(sc.ServerKey),
	)
	return h, nil
}

// Verify recomputes the stored key for the presented pass password,
// using the salt and iterations count which are embedded in the
// hashed string, and compares it with the embedded stored key in
// constant time. It returns nil if they match, a cerr.Authentication
// error if they do not, and other errors if the hashed string does
// not follow the format which is produced by the Hash method or names
// another mechanism.
func (m *Mechanism) Verify(pass, hashed string) error {
	name, rest, ok := strings.Cut(hashed, "$")
	if !ok || name != m.name {
		return fmt.Errorf("hash does not belong to the %s mechanism", m.name)
	}
	keyFactors, keys, ok := strings.Cut(rest, "$")
	if !ok {
		return errors.New("hash misses the keys section")
	}
	itersStr, salt, ok := strings.Cut(keyFactors, ":")
	if !ok {
		return errors.New("hash misses the salt")
	}
	iters, err := strconv.Atoi(itersStr)
	if err != nil {
		return fmt.Errorf("parsing iterations count: %w", err)
	}
	storedKeyB64, _, ok := strings.Cut(keys, ":")
	if !ok {
		return errors.New("hash misses the server key")
	}
	storedKey, err := base64.StdEncoding.DecodeString(storedKeyB64)
	if err != nil {
		return fmt.Errorf("decoding base64 stored key: %w", err)
	}
	sc, err := m.storedCredentials(pass, salt, iters)
	if err != nil {
		return fmt.Errorf("obtaining stored credentials: %w", err)
	}
	if !hmac.Equal(sc.StoredKey, storedKey) {
		return cerr.Authentication(errors.New("password mismatch"))
	}
	return nil
}

func (m *Mechanism) storedCredentials(
	pass, salt string, iters int,
) (*scram.StoredCredentials, error) {
	c, err := m.hashGenerator.NewClient("username", pass, "authzID")
	if err != nil {
		return nil, fmt.Errorf("creating SCRAM client: %w", err)
	}
	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 salt: %w", err)
	}
	c = c.WithMinIterations(iters)
	sc := c.GetStoredCredentials(scram.KeyFactors{
		Salt:  string(saltBytes),
		Iters: iters,
	})
	return &sc, nil
}
