// Package middleware provides HTTP middleware components.
package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// uncompressedPaths negotiate their own encoding.
var uncompressedPaths = []string{"/metrics"}

// Compression returns a middleware that gzips responses for clients that
// accept it, skipping the Prometheus scrape endpoint.
func Compression() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths(uncompressedPaths))
}
