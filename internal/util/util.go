// Package util provides small helpers shared by the sipstack packages.
package util
