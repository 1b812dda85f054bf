// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package guardian

import "github.com/luxfi/multigov/utils/hashing"

// QueryResponsePrefix domain-separates signed query responses from
// observed messages.
const QueryResponsePrefix = "query_response_0000000000000000000|"

// QueryResponseDigest is the digest guardians sign over a query response.
func QueryResponseDigest(response []byte) [hashing.HashLen]byte {
	inner := hashing.Keccak256(response)
	return hashing.Keccak256([]byte(QueryResponsePrefix), inner[:])
}

// BodyDigest is the digest guardians sign over an observed message body.
func BodyDigest(body []byte) [hashing.HashLen]byte {
	inner := hashing.Keccak256(body)
	return hashing.Keccak256(inner[:])
}
