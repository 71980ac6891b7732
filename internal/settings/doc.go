// Package settings persists the single API credential gora-search needs.
//
// Values live in a JSON file under the data directory and are read through
// viper. The credential is re-read from disk on every access so a change made
// by another process (or the settings page) is seen by the next search. When a
// passphrase is configured the credential is sealed at rest with AES-GCM.
package settings
