package store

// Session identifies one recorded walk of one tree against one compiled
// rule table.
type Session struct {
	ID        string // UUID
	SheetHash string // ir.SheetHash of the rule table used
	Root      string // path of the tree's root node
	RuleCount int    // number of rules in the table
}

// Match is one (node visit, matched rule) record.
type Match struct {
	SessionID string
	Seq       int64  // pre-order visit number of the node
	NodePath  string // walker path of the node
	RuleIx    int    // index into the session's rule table
	Selector  string // source text of the matched rule, for display
}
