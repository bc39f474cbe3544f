// Package posts holds the posts slice of the application state: a list of
// posts with reaction counters and the status of the last fetch.
package posts
