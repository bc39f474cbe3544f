// Package memory provides an in-memory ports.Backend for the fake REST API and tests.
package memory
