// Package kernel provides the value objects shared across the marketplace domain model.
//
// The package includes:
//   - UUID: identifier value object used by every aggregate
//   - Money: non-negative decimal amount for prices and logistics costs
//   - GeoPoint: validated latitude/longitude pair for tracking events
//
// Values are immutable and safe for concurrent use.
package kernel
