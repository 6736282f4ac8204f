package seed

// Kind identifies a statement type by its YAML tag.
type Kind int

const (
	KindUser Kind = iota
	KindGrant
	KindBlog
)

var kindNames = [...]string{
	KindUser:  "user",
	KindGrant: "grant",
	KindBlog:  "blog",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Tag returns the YAML tag of the statement, e.g. "!user".
func (k Kind) Tag() string {
	return "!" + k.String()
}
