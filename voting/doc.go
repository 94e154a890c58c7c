// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements ranked-choice aggregation with the Borda count.

Everything here is pure: functions take ballots, the option catalog and
the participant roster as values and return derived views. Nothing is
cached, so results are always a full recomputation from the stored
ballots.

# Scoring

A ballot that ranks N options gives the option at effective rank r
N - r + 1 points:

	[A:1, B:2, C:3]  ->  A=3, B=2, C=1
	[A:1, B:2]       ->  A=2, B=1

The effective rank is an entry's position after sorting the ballot by
stored rank. Ballots pruned by option deletion ([A:1, C:3]) therefore
score as if they were contiguous ([A:1, C:2]).

Score sorts options by total points, descending. Equal scores keep the
order in which options were first seen on a ballot; options in the
catalog that nobody ranked follow with zero points.

# Tie-Break

ResolveWinner runs only when a winner is requested. When the top score
is shared, each tied option gets a weighted score summed over every
ballot:

	rank 1 -> 3, rank 2 -> 2, rank 3 and below -> 1

The highest weighted score wins. If that is also shared, the first tied
option in display order wins. Either way the result is marked IsTied.

# Status

TrackStatus partitions the event roster into voted and not-voted using
standard-mode ballots only. CountVoters counts distinct standard-mode
voters plus one per quick-poll ballot.

# Usage

	result := voting.Tally("place", ballots, catalog, finalize)
	status := voting.TrackStatus("place", event.Participants, ballots)
*/
package voting
