// Package progress keeps cumulative submission and completion counters for
// the slot manager. Counters are updated with signed deltas so the same
// primitive covers admissions, rejections and worker completions.
package progress
