// Package filters holds the stock post-processing filters and the drop
// shadow decorator.
//
// Filters keep only the parameters their owner sets on them. Everything a
// later pass needs is carried by render.FilterPassSetup, so one filter value
// can be shared by several chains.
package filters
