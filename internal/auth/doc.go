// Package auth implements the credential and session core: password
// hashing, token issuance and validation, identity resolution, and tenant
// resolution.
//
// Tokens are stateless. There is no revocation list; a token stays valid
// until its embedded expiry. This trades immediate revocation for a core
// that needs no per-request token storage, which keeps validation a pure
// signature check. Short TTLs bound the exposure window.
package auth
