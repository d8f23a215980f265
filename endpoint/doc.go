/*
Package endpoint resolves the base URL of the backend API at runtime.

A [Resolver] checks, in order:
  - the configured base URL, normalized
  - the origin of the page currently being served, when it is not a loopback address
  - [DefaultBaseURL], the local development backend

Nothing is cached: every call reflects the [Config] and [Locator] as they are at that moment.
A [Locator] is how a Resolver learns the current origin.
Contexts without a page, such as a CLI or a background job, use [NoLocation].
*/
package endpoint
