// Package seq provides helpers over lazy sequences (iter.Seq).
//
// Sequences are consumed once per call and never retained. A nil sequence
// behaves as an empty one. Slices adapt with slices.Values:
//
//	byID := seq.ToMap(slices.Values(users), func(u User) int { return u.ID })
//	byTeam := seq.GroupBy(slices.Values(users), func(u User) string { return u.Team })
//
// Only [ForEachLimit] runs work concurrently; every other helper runs on the
// caller's goroutine (or, for [ForEachAsync], on a single background one) in
// sequence order.
package seq
