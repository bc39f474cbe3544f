/*
Package ports defines the driven ports (interfaces) of tendril.

These interfaces decouple thunks and the fake API from concrete implementations,
allowing them to work with various transports and storage backends.

# Key Interfaces

  - Client: the REST client thunks use to fetch and mutate remote data.
  - Backend: the storage behind the fake REST API (memory or Redis).
*/
package ports
