// Package pack implements the pack directory (§4.5): a set of sibling
// pack-<hash>.pack / pack-<hash>.idx file pairs, read lazily and merged
// on demand by a consolidator that keeps the object count across small
// packs from growing without bound.
//
// Directory works against a billy.Filesystem, so the same type serves an
// in-memory memfs in tests and a real OS directory in production.
package pack
