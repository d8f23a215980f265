/*
Package authstub is an in-memory stand-in for the upstream auth API, for development and tests.

It answers POST /auth/register and POST /auth/login,
the routes the portal's auth client and /api/auth proxy call.
Accounts live only as long as the process.
*/
package authstub
