// Package weights implements weight copy, paste and cleanup operators.
//
// [Aggregate] averages the group weights of several vertices into a single
// distribution limited to the strongest influences, suitable for pasting onto
// other vertices. [Blend] and [Paste] fade such a distribution in over the
// current weights. [ZeroGroup], [PruneUnused] and [Transfer] cover the
// remaining editing operators.
//
// Operators that change how much weight a vertex carries in total leave
// renormalization to the caller through [mesh.Mesh.NormalizeAll], the same way
// a host application runs its own normalize step after an edit.
package weights
