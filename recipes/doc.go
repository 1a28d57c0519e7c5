// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package recipes recommends recipes that are safe for everyone in a lobby.

# Restriction Set

NewRestrictionSet takes the union of all participants' allergies and dietary
restrictions, trimmed and lower-cased, with blanks dropped.

# Exclusion Rule

A recipe is excluded when its lower-cased title contains any term as a
substring, or any ingredient name equals a term ignoring case:

	"Buttermilk Pancakes" with {"milk"}   → excluded (title substring)
	ingredient "Milk" with {"milk"}       → excluded (exact ingredient)
	ingredient "coconut milk" with {"milk"} → kept

FilterForLobby also keeps only recipes whose dish types include
"main course".

# Two-Stage Fetch

Recommender.Candidates asks the kitchen API for ingredient-based matches,
then fetches full records for their ids in one bulk call. No ids means no
bulk call and an empty, non-degraded result. Malformed kitchen answers yield
an empty result with Degraded set.

ForLobby runs the participant fetch and the candidate fetch concurrently and
filters only after both finish.

# Caching

Full records are cached per recipe id (see package cache). Concurrent
requests missing the same ids share one bulk call.
*/
package recipes
