// Package testsupport provides deterministic synthetic signals and audio
// file fixtures shared by package tests.
package testsupport
