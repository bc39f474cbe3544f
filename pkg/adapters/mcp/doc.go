// Package mcp exposes a tendril.App to Model Context Protocol clients.
package mcp
