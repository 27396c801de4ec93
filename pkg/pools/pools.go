// Package pools provides object pooling for reducing GC pressure.
//
// Concurrent optimizer trials each need dense scratch vectors as long as
// the graph. Float64Pool recycles them across trials by power-of-two size
// class.
package pools
