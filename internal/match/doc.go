// Package match provides identifier matching for the resolver: Unicode case
// folding, CamelCase tokenization, a case-insensitive name index and
// Levenshtein-based "did you mean" suggestions.
//
// Key functions:
//   - Fold: case-folds identifiers for case-insensitive comparison
//   - NewFoldIndex: groups names that are equal after folding
//   - TokenizeIdent: splits identifiers into lowercase words
//   - Suggest: ranks names that resemble a missing one
package match
