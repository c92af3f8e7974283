package domain

// ActionKind names one of the four curator actions.
type ActionKind string

const (
	ActionApprove ActionKind = "approve"
	ActionReject  ActionKind = "reject"
	ActionEdit    ActionKind = "edit"
	ActionPublish ActionKind = "publish"
)

// Action is a closed union: Approve, Reject, Edit or Publish.
type Action interface {
	Kind() ActionKind
	Actor() string
	isAction()
}

// Meta holds fields shared by every action.
type Meta struct {
	By string `json:"actor,omitempty"`
}

func (m Meta) Actor() string { return m.By }

// Approve marks the item approved under a resolved category.
// An empty CategoryID falls back to the manual, then the suggested category.
// Nil Notes leaves existing notes untouched.
type Approve struct {
	Meta
	CategoryID string  `json:"category,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// Reject closes the item. An empty Reason is replaced by the configured default.
type Reject struct {
	Meta
	Reason string `json:"reason,omitempty"`
}

// Edit overwrites the supplied working copy fields; nil means "not supplied".
type Edit struct {
	Meta
	Title      *string `json:"title,omitempty"`
	Summary    *string `json:"summary,omitempty"`
	Content    *string `json:"content,omitempty"`
	CategoryID *string `json:"category,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// Publish materializes an article. Empty fields fall back to the working copy and resolved category.
type Publish struct {
	Meta
	Title      string `json:"title,omitempty"`
	Summary    string `json:"summary,omitempty"`
	Content    string `json:"content,omitempty"`
	CategoryID string `json:"category,omitempty"`
}

func (Approve) Kind() ActionKind { return ActionApprove }
func (Reject) Kind() ActionKind  { return ActionReject }
func (Edit) Kind() ActionKind    { return ActionEdit }
func (Publish) Kind() ActionKind { return ActionPublish }

func (Approve) isAction() {}
func (Reject) isAction()  {}
func (Edit) isAction()    {}
func (Publish) isAction() {}

// Empty reports whether an edit carries no field at all.
func (e Edit) Empty() bool {
	return e.Title == nil && e.Summary == nil && e.Content == nil && e.CategoryID == nil && e.Notes == nil
}
