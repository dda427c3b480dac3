// Package objfile implements the loose object wire format (§4.1, §4.2):
// a zlib-deflated "<type> <size>\x00<payload>" stream, the on-disk form
// of a standalone loose object. Pack entries do not use it: their
// compressed payload carries no such header.
package objfile
