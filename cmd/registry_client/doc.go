// The registry-client binary is a thin command line client for the
// registry server's JSON API: queries, mints, transfers, royalty
// resolution and snapshots.
//
//	registry-client --caller 0x10...01 mint 0x07 0x20...02
//	registry-client owner-of 0x07
//	registry-client royalty 0x07 1000000
package main
