// Package security holds the TLS settings shared by the redis and kafka
// clients.
//
//	tlsCfg, err := cfg.TLS.Build() // nil when nothing is configured
package security
