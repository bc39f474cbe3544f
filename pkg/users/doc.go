// Package users holds the list of known post authors.
package users
