// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package roles turns participants into kitchen role cards and pages through
them three at a time.

# Cards

A Dealer draws a role from Catalog and a power level from 1 to 5 for each
participant. The randomness is cosmetic and comes from an injected source;
handlers use LobbySource so a lobby's cards stay put between page loads:

	cards := roles.NewDealer(roles.LobbySource(lobbyID)).Deal(participants)

# Window

The viewer shows WindowSize cards. Window clamps the start to
[0, max(0, total-3)]; lists shorter than three are shown whole and an empty
list gives an empty window, never an error.

	lo, hi := roles.Window(len(cards), start, roles.WindowSize)
*/
package roles
