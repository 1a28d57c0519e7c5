// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package token generates the random identifiers used by the service.

# Lobby IDs

Lobby IDs are short base36 strings built from 64 random bits:

	id, err := token.GenerateLobbyID() // e.g. "k3j9x0a1bq"

They always match [0-9a-z]{9,13}, so they drop into URLs without escaping.
ValidateLobbyID rejects anything else before a lookup is attempted.

# Share Links

Participants join through the dietary form:

	link := token.DietaryFormLink(id) // "/dietary-form/k3j9x0a1bq"

# Record IDs

GenerateID returns hex-encoded random bytes, used for spin history rows:

	id, err := token.GenerateID(12)
*/
package token
