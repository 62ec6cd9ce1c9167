// Package fetch is the client's resilient HTTP layer.
//
// Retry issues a request through an injectable Doer and repeats it, after a
// constant delay, while the transport itself fails (connection refused, DNS,
// reset). Any HTTP response, whatever its status code, ends the loop: 4xx and
// 5xx replies are data for the caller, not failures of this layer. When the
// attempt budget is spent the last transport error is returned as is.
//
// Client builds on Retry: it prefixes paths with the API base URL, sets the
// JSON content type, attaches "Authorization: Bearer <token>" only when a
// token is supplied, retries 3 times with 300ms between attempts, and decodes
// the JSON body regardless of status. Applications check the body's own
// "success" field.
//
// Requests are retried regardless of method. A POST whose connection dropped
// after the server acted on it may therefore be applied twice.
package fetch
