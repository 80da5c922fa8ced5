// Package optimizer picks elective subsets whose points add up to a quota
// and ranks them by weighted average grade.
//
// The search is a plain enumeration of subsets of the elective pool. Sizes
// 0..n-1 are tried; the complete pool is never tested as a candidate and is
// only returned as the fallback when no subset hits the quota. Cost grows as
// 2^n, so pools are capped (see WithMaxElectives).
//
// Results are ordered by average, highest first. Equal averages are ordered
// by their sorted ids, compared lexicographically.
package optimizer
