/*
Package handler serves the portal's pages.

Visitors sign in and register through HTML forms.
A successful sign in persists the issued token with a tokenstore.Store,
into the visitor's session (mirrored in Redis when configured) and a token cookie.
Signing out and landing on /401 clear those copies.
*/
package handler
