// The registry-server binary hosts one token registry instance behind
// the JSON HTTP API, with optional snapshot persistence to file, S3 or
// IPFS storage backends.
//
// Minimal invocation:
//
//	registry-server --owner 0x1000000000000000000000000000000000000001
//
// With persistence and a custom default royalty:
//
//	registry-server --owner 0x10...01 \
//	  --royalty-receiver 0x40...04 --royalty-numerator 500 \
//	  --storage file:///var/lib/token-registry \
//	  --storage "s3://snapshots/registry?region=us-east-1"
package main
