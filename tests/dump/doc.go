/*
Package dump persists states of deployed Neo smart contracts.

A dump couples the contract state (NEF, manifest) with a full copy of its
storage, which is enough to replay the contract against a test chain. The
nft contract dumps produced by cmd/dump are meant to back migration tests
of future contract versions against data collected from live networks.

Dumps are stored in the file system using human-readable encoding.
*/
package dump
