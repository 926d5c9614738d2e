// Package testsupport builds throwaway configs and fixture images for tests.
package testsupport
