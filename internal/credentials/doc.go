// Package credentials resolves key and passphrase material through an
// ordered fallback chain.
//
// For a kind K and scope S the chain is:
//
//  1. $KOWHAI_<K>_<S> (scope-specific environment variable)
//  2. $KOWHAI_<K> (scope-less fallback)
//  3. the OS credential store, service "kowhai:<k>", account S
//  4. an interactive prompt, only when a terminal is attached
//
// The first tier to produce a well-formed value wins; malformed values
// fall through rather than failing. Resolved credentials are in-memory
// only, are never logged, and are never cached across invocations.
package credentials
