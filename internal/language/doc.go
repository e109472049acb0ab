// Package language turns the language codes players report for tracks into
// human-readable labels using golang.org/x/text.
package language
