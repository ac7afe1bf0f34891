// Package usage serves the read-only usage dashboard: how much of each
// metered feature the caller has consumed in the current period and how much
// remains. Reads go straight to the usage store without locking, so a number
// may be a request behind under concurrent generation.
package usage
