package segment

// Exports for testing.

// OverlapPrefix exports overlapPrefix for testing.
var OverlapPrefix = overlapPrefix
