// Package supabase creates accounts through the Supabase GoTrue API.
//
// Only the public signup endpoint is used, authenticated with the
// project's anon (publishable) key. Config.Validate refuses a service_role
// key: this client runs behind a public registration page.
//
// A signup is resent only when GoTrue never received it or answered 429.
// Once delivered it may have created the account, and a second attempt
// would be refused as user_already_exists.
package supabase
