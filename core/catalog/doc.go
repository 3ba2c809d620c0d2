// Package catalog holds the validated set of course offerings the engine
// recommends from, and the sources it can be loaded from.
package catalog
