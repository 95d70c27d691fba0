// Package encryption seals short secrets such as provider API keys.
//
//	enc, err := encryption.New(passphrase)
//	sealed, err := enc.Encrypt(apiKey)
//	apiKey, err = enc.Decrypt(sealed)
package encryption
