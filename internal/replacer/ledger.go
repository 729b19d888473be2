package replacer

// ledger is the ordered, in-memory sequence of pending operations owned by
// one Replacer. Insertion order is what makes rollback-last well-defined:
// PopLast always reverses the most recent apply first.
//
// The ledger does not guard against two operations referencing the same
// staged snapshot; the Replacer guarantees that by staging every snapshot
// under a fresh collision-free name.
type ledger struct {
	ops []*Operation
}

// Append adds op as the newest pending operation. O(1).
func (l *ledger) Append(op *Operation) {
	l.ops = append(l.ops, op)
}

// PopLast removes and returns the most recent operation.
func (l *ledger) PopLast() (*Operation, bool) {
	if len(l.ops) == 0 {
		return nil, false
	}
	op := l.ops[len(l.ops)-1]
	l.ops = l.ops[:len(l.ops)-1]
	return op, true
}

// All returns the pending operations in insertion order without consuming
// them.
func (l *ledger) All() []*Operation {
	return l.ops
}

// Drain removes and returns all pending operations in insertion order.
func (l *ledger) Drain() []*Operation {
	ops := l.ops
	l.ops = nil
	return ops
}

// Len returns the number of pending operations.
func (l *ledger) Len() int {
	return len(l.ops)
}
