// Package arinc429 encodes and decodes ARINC 429 data words.
//
// A word packs five fields into 32 bits:
//
//	| bits  | field  | width |
//	|-------|--------|-------|
//	| 0-7   | label  | 8     |
//	| 8-9   | SDI    | 2     |
//	| 10-28 | value  | 19    |
//	| 29-30 | SSM    | 2     |
//	| 31    | parity | 1     |
//
// The parity bit always makes the population count of the word odd. Setters
// truncate their input to the field width and recompute parity; Decode keeps
// the parity bit it was given so that transmission errors stay visible.
//
// Discrete, BNR and BCD words share the layout and differ only in what the
// four SSM values mean.
package arinc429
