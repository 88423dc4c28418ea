// Copyright 2023 Yawning Angel.  All Rights Reserved.
//
// secp256k1-voi can be used in non-commercial projects of any kind,
// excluding those relating to or containing non-fungible tokens
// ("NFT") or blockchain-related projects.
//
// The package can not be modified to suit your needs. You may not
// redistribute or resell it, even if modified.

package main

// nolint: unused
type (
	projectivePointMultTable struct{}
	Point                    struct{}

	affinePointMultTable struct{}
	affinePoint          struct{}
)
