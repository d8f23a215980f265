/*
Package proxy forwards browser auth calls from the portal's own origin to the upstream auth API.

Requests to /api/auth/login and /api/auth/register are relayed to
<upstream>/auth/login and <upstream>/auth/register.
The upstream status and body come back verbatim; only Content-Type is copied over.
*/
package proxy
