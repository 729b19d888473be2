package replacer

// TargetKind identifies which apply/rollback strategy an operation used.
type TargetKind string

const (
	// KindFolder customizes a folder via its customization file.
	KindFolder TargetKind = "folder"

	// KindAssociation customizes a file-type association via the store.
	KindAssociation TargetKind = "association"

	// KindShortcut customizes a shortcut via the shell-link editor.
	KindShortcut TargetKind = "shortcut"

	// KindExecutable is extraction-only; no state is mutated, so operations
	// of this kind never enter the ledger.
	KindExecutable TargetKind = "executable"
)

// StoreKey identifies one value in the key/value store.
type StoreKey struct {
	Root string
	Path string
	Name string
}

// PriorValue records a store value as it was before an apply. Present=false
// means the value did not exist and rollback must delete rather than set.
type PriorValue struct {
	Value   string
	Present bool
}

// Operation is one logical, already-applied mutation plus everything needed
// to reverse it. Every key in StoreChanges and FileChanges was touched exactly
// once during this operation's apply; rollback restores each to its recorded
// prior state and nothing else.
type Operation struct {
	// TargetPath identifies the thing mutated: a folder path, an extension
	// string, or a shortcut path.
	TargetPath string

	// Kind selects the rollback strategy.
	Kind TargetKind

	// StoreChanges maps each touched store value to its prior state.
	StoreChanges map[StoreKey]PriorValue

	// FileChanges maps each overwritten file to the staged snapshot holding
	// its pre-mutation bytes.
	FileChanges map[string]string

	// IconRef is the staged snapshot of the new resource that was applied,
	// kept for the audit trail even when no file was overwritten.
	IconRef string
}

func newOperation(target string, kind TargetKind) *Operation {
	return &Operation{
		TargetPath:   target,
		Kind:         kind,
		StoreChanges: make(map[StoreKey]PriorValue),
		FileChanges:  make(map[string]string),
	}
}

// steps returns the number of reversal steps rollback will perform.
func (op *Operation) steps() int {
	return len(op.StoreChanges) + len(op.FileChanges)
}
