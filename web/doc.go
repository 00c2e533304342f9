// Package web is the browser adapter of the registration flow.
//
// Every browser gets a session (cookie) owning one registration.Controller.
// POST /register starts a submission and answers 202 once the loading
// state has been emitted; the remaining events (state updates, focus and
// clear directives, the redirect) reach the page over the SSE stream at
// /register/events.
package web
