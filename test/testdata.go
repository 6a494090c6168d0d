// Package test holds fixtures shared by package tests.
package test

import "embed"

//go:embed testdata
var TestData embed.FS
