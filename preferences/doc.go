// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package preferences validates and normalizes dietary form submissions.

Validate checks name and email and returns per-field messages:

	"Name is required", "Email is required", "Invalid email format"

Normalize folds the allergy, restriction and specialty lists through a
ToggleSet each. Keys are trimmed and lower-cased, known options take their
catalog spelling and duplicates collapse.
*/
package preferences
