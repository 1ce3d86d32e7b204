// Package utils provides small helpers for talking to the user's environment:
// reading piped input and opening URLs in a browser.
package utils
