// Package keystore stores developer API credentials in a local SQLite
// database, so the key file does not have to be passed on every invocation.
//
// # Overview
//
// A Profile bundles the issuer id, key id and the PEM private key of one
// developer API key under a memorable name. The private key can be sealed
// with a passphrase: it is then encrypted with AES-GCM under an Argon2id
// derived key, and a verifier of that key is stored so a wrong passphrase
// is rejected before decryption.
//
// # Storage
//
// Profiles live in a single SQLite file (DefaultPath puts it under
// ~/.appship). The schema is managed by embedded goose migrations applied
// on Open.
//
// Typical Usage
//
//	store, _ := keystore.Open(ctx, path)
//	defer store.Close()
//	p := &keystore.Profile{Name: "default", IssuerID: iss, KeyID: kid, Key: pem}
//	_ = p.SealKey(passphrase)
//	_ = store.Save(ctx, p)
package keystore
