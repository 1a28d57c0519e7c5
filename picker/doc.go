// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package picker implements the randomized meal picker.

# States

A Wheel is Idle or Spinning. Spin is accepted only while Idle; a second
trigger returns ErrSpinning. After the spin duration (5s by default) the
wheel settles and returns to Idle unconditionally.

# Rotation

Each spin adds 6 to 8 full turns plus a stop angle in [0, 45) to the
current rotation. The settled slot is

	Segments[(rotation mod 360) / 45]

over Pizza, Burger, Sushi, Salad, Taco, Donut, Ramen and Apple.

# Recipe Mode

In recipe mode the candidate list is copied at Spin time and the outcome is
a uniform pick from that copy. An empty list returns ErrNoCandidates and
nothing starts.

# Lifecycle

Wait blocks until the spin settles or the context ends. Close stops a
pending timer so no settle callback runs after shutdown. Board keeps one
wheel per lobby and closes them all at once. Wheels idle for longer than
the idle TTL (an hour by default) are dropped as new lobbies arrive.

Randomness is injected with WithRand or WithSources so tests are repeatable.
*/
package picker
