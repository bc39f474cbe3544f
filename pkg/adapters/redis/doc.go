// Package redis provides a Redis-backed ports.Backend for the fake REST API.
package redis
