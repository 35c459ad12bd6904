//go:build debug

package field

// debugAssert enables precondition checks on the evaluation path
const debugAssert = true
