package driver

import (
	"crypto/sha256"
	"slices"

	"ksc/internal/project"
	"ksc/internal/source"
)

// PackageHash derives the cache key for one package from its schema header
// version, the hashes of its files, and the hashes of its dependencies.
// File hashes are sorted so the key does not depend on load order.
func PackageHash(name string, fileHashes []project.Digest, depHashes []project.Digest) project.Digest {
	sorted := make([]project.Digest, len(fileHashes))
	copy(sorted, fileHashes)
	slices.SortFunc(sorted, func(a, b project.Digest) int {
		return slices.Compare(a[:], b[:])
	})

	seed := append([]byte{byte(diskCacheSchemaVersion >> 8), byte(diskCacheSchemaVersion)}, name...)
	header := project.Digest(sha256.Sum256(seed))

	all := make([]project.Digest, 0, len(sorted)+len(depHashes))
	all = append(all, sorted...)
	all = append(all, depHashes...)
	return project.Combine(header, all...)
}

// FileHashes extracts the content hashes of the given files from the set.
func FileHashes(fs *source.FileSet, ids []source.FileID) []project.Digest {
	out := make([]project.Digest, 0, len(ids))
	for _, id := range ids {
		out = append(out, project.Digest(fs.Get(id).Hash))
	}
	return out
}
