// Package objects contains wire objects shared by the API handlers and
// middleware. To avoid circular dependencies, we put them here.
package objects
