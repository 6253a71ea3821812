// Package storage provides content-addressed persistence for registry
// snapshots and exported event logs.
//
// Backends implement interfaces.StorageBackend and are created by the
// StorageBackendFactory from location URIs, so deployments choose their
// persistence by configuration alone:
//
//	file:///var/lib/registry
//	s3://bucket/prefix?region=us-east-1
//	ipfs://127.0.0.1:5001/
//	memory://
//
// The MultiStorageBackend aggregates several backends for redundancy:
// content is stored to all available backends and fetched from the first
// one that holds it. Content identifiers are SHA-256 hashes of the data,
// so identical content resolves to the same ID on every backend.
package storage
