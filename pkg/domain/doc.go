/*
Package domain contains the core vocabulary of the tendril state container.

It defines the values that flow through a store: Actions, the entities the
example domains manage, fetch bookkeeping types and the events emitted for
observability. The package is kept pure and free of I/O.

# Key Entities

  - Action: a tagged message describing an intended state change.
  - Todo, Post, User: entities identified by a unique string id.
  - Filter, FetchStatus: metadata attached to collection fetches.
  - StateDiff: the top-level delta between two state snapshots.
  - Preparer: computes ids and timestamps before an action is dispatched.
*/
package domain
