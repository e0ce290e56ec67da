// Package storefront is a Go client for the storefront REST API.
//
// Client maps one method to each endpoint. Session tracks the signed-in user
// and token, and CartStore mirrors the server-side cart by re-reading it after
// every mutation.
package storefront
