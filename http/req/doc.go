/*
Package req provides ergonomics for handling an HTTP request.

Package req provides a helper for parsing payloads in an HTTP request.
It supports JSON-encoded payloads and payloads encoded in form values or query parameters.
In every case, package req expects to parse payloads into a pointer to a struct.
That struct ought to leverage the appropriate struct tags for performing two tasks.
First, matching keys in the payload to fields on the struct ("json" or "schema").
Second, validating the payload's data meets requirements ("validate").

Errors are translated to portal sentinel errors
so handlers deal with one consistent set across encoding types.
*/
package req
