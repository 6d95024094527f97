// Package catalog adapts the Open Library search API into library books and falls back to an
// embedded catalog whenever the remote answer is unusable.
package catalog
