// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package gdms

// pageInfo is the pagination metadata of one listing response. Zero means
// the field was absent (or zero, which is treated the same).
type pageInfo struct {
	TotalPage int
	Total     int
	Received  int
}

// hasMore reports whether another page should be requested after pageNum.
// A declared page count wins, then a declared item count; with neither, only
// a full page implies more data.
func hasMore(pageNum, pageSize int, info pageInfo) bool {
	if info.TotalPage > 0 {
		return pageNum < info.TotalPage
	}
	if info.Total > 0 {
		return pageNum*pageSize < info.Total
	}
	return info.Received == pageSize
}
