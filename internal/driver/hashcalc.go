package driver

import (
	"crypto/sha256"
	"encoding/binary"

	"ploy/internal/project"
	"ploy/internal/version"
)

// CacheKey: H(content || H(toolchain, options)). Anything that changes the
// lowered result must be part of the key: compiler version, artifact
// schema, scope markers and unit name.
func CacheKey(content project.Digest, opts Options) project.Digest {
	buf := binary.BigEndian.AppendUint16(nil, artifactSchema)
	buf = appendField(buf, version.Version)
	flag := byte(0)
	if opts.ScopeMarkers {
		flag = 1
	}
	buf = append(buf, flag)
	buf = appendField(buf, opts.Unit)
	return project.Combine(content, sha256.Sum256(buf))
}

// appendField writes s length-prefixed, so adjacent strings cannot shift
// bytes between each other.
func appendField(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}
