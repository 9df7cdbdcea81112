package ast

// NodeID addresses a node in a Tree. Ids stay valid across every structural
// edit; nodes are detached, never freed.
type NodeID uint32

// NoNodeID marks an absent node.
const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// TokenRange is a half-open range of token offsets.
type TokenRange struct {
	Start uint32
	End   uint32
}

func (r TokenRange) Len() uint32 { return r.End - r.Start }

// Contains reports whether other lies inside r.
func (r TokenRange) Contains(other TokenRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}
