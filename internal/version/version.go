// ABOUTME: Version constants for the player
// ABOUTME: Product identity reported to remotes and shown in the UI
package version

const (
	// Version is the player release version
	Version = "0.1.0"

	// Product is the product name
	Product = "Chorus Player"

	// Manufacturer identifies who builds this player
	Manufacturer = "Chorus"
)
