// Package authclient calls the upstream auth service to log users in and register them.
package authclient
