// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package gdms

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Sign computes the request signature for a JSON body.
func Sign(body []byte, accessToken, appID, secret, timestamp string) string {
	var seed strings.Builder
	seed.WriteString("&access_token=")
	seed.WriteString(accessToken)
	seed.WriteString("&appID=")
	seed.WriteString(appID)
	seed.WriteString("&secretKey=")
	seed.WriteString(secret)
	seed.WriteString("&timestamp=")
	seed.WriteString(timestamp)
	seed.WriteString("&")
	seed.WriteString(sha256Hex(body))
	seed.WriteString("&")
	return sha256Hex([]byte(seed.String()))
}

// signedURL appends the signing parameters to base+path, keeping the order
// access_token, appID, timestamp, signature.
func signedURL(base, path, accessToken, appID, timestamp, signature string) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString(path)
	b.WriteString("?access_token=")
	b.WriteString(url.QueryEscape(accessToken))
	b.WriteString("&appID=")
	b.WriteString(url.QueryEscape(appID))
	b.WriteString("&timestamp=")
	b.WriteString(timestamp)
	b.WriteString("&signature=")
	b.WriteString(signature)
	return b.String()
}
