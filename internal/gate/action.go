package gate

// Action names the operation a subject is attempting on a resource.
// Policies receive it so a single policy can answer for every verb.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
	// ActionExport covers ledger CSV downloads and backup archives.
	ActionExport Action = "export"
)
