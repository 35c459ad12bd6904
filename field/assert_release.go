//go:build !debug

package field

const debugAssert = false
