// Package admin implements vaultctl, the operator CLI of the vault server.
//
// Commands:
//
//	keygen          print a fresh 64-character hex vault key
//	seal            seal a secret read from the terminal or stdin
//	open            open a sealed value
//	migrate         apply database migrations
//	reseal-legacy   rewrite stored plaintext secrets in sealed form
//	ping            check that a vault server answers
//
// Key material and database settings come from flags, falling back to the
// same VAULT_* environment variables the server reads.
package admin
