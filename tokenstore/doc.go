/*
Package tokenstore persists a session token into every location readers expect to find it.

A token is written under three key-value keys ([StorageKeys]) and one cookie ([CookieName]).
[Store.Persist] and [Store.Clear] touch all four copies together.
Each write is attempted independently:
a failure is logged as a warning and never stops the remaining writes
nor surfaces to the caller.

Where a token lands is decided by a [Target].
A Target lacking either its [Storage] or its [CookieJar] describes a context
with nothing to persist into, and both operations do nothing.
*/
package tokenstore
