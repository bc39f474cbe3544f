/*
Package tendril is a predictable state container: one immutable state tree,
changed only by dispatching actions through pure reducers.

It wires the generic store in pkg/store to four domains (a counter, a todo list
fetched per filter, a posts feed with reactions, and its authors) and to a REST
collaborator reached only from thunks. Reducers never perform I/O.

# Concept

Every change is an Action{Type, Payload}. The store runs it through a chain of
middlewares (thunks, logging, metrics) and then through the root reducer, which
delegates each slice of State to its own reducer. Subscribers are notified after
every transition and read the new snapshot with GetState.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/tendril"
		"github.com/aretw0/tendril/pkg/adapters/restclient"
		"github.com/aretw0/tendril/pkg/domain"
	)

	func main() {
		app := tendril.New(restclient.New("http://localhost:3000"))
		defer app.Close()

		ctx := context.Background()
		if _, err := app.Dispatch(ctx, app.FetchTodos(domain.FilterActive)); err != nil {
			log.Fatal(err)
		}

		for _, t := range tendril.VisibleTodos(app.GetState(), domain.FilterActive) {
			fmt.Println(t.Text)
		}
	}
*/
package tendril
