/*
Package todos manages a todo list fetched from a server.

The state keeps every todo once, in ByID, and one List of ids per filter
(all, active, completed) together with the fetch bookkeeping of that filter.
Thunks talk to the server through ports.Client; the reducer only ever sees
normalized responses.
*/
package todos
