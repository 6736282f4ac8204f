package seed

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Statement is one entry of a seed document.
type Statement interface {
	Kind() Kind
}

// User creates an account, or updates the role and activation of an
// existing one. The password is taken from Password, then from the
// environment variable named by PasswordEnv, and is generated otherwise.
type User struct {
	Username    string `yaml:"username"`
	Password    string `yaml:"password,omitempty"`
	PasswordEnv string `yaml:"password_env,omitempty"`
	Role        string `yaml:"role,omitempty"`
	Active      *bool  `yaml:"active,omitempty"`
}

func (User) Kind() Kind { return KindUser }

// UnmarshalYAML accepts both the scalar form (just the username) and the
// mapping form.
func (u *User) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		u.Username = value.Value
		return nil
	}
	type userAlias User
	return value.Decode((*userAlias)(u))
}

// Grant sets the role of a user defined earlier or already stored.
type Grant struct {
	User string `yaml:"user"`
	Role string `yaml:"role"`
}

func (Grant) Kind() Kind { return KindGrant }

// Blog writes a post for Author. Status is a label or a number and
// defaults to draft.
type Blog struct {
	Title    string `yaml:"title"`
	Content  string `yaml:"content"`
	Author   string `yaml:"author"`
	Status   string `yaml:"status,omitempty"`
	CoverURL string `yaml:"cover_url,omitempty"`
}

func (Blog) Kind() Kind { return KindBlog }

// Statements is a parsed seed document.
type Statements []Statement

func (s *Statements) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: seed document must be a sequence of statements", value.Line)
	}

	statements := make(Statements, 0, len(value.Content))
	for _, node := range value.Content {
		var statement Statement

		switch node.Tag {
		case KindUser.Tag():
			var user User
			if err := node.Decode(&user); err != nil {
				return err
			}
			statement = user
		case KindGrant.Tag():
			var grant Grant
			if err := node.Decode(&grant); err != nil {
				return err
			}
			statement = grant
		case KindBlog.Tag():
			var blog Blog
			if err := node.Decode(&blog); err != nil {
				return err
			}
			statement = blog
		default:
			return fmt.Errorf("line %d: unknown statement tag %q", node.Line, node.Tag)
		}

		statements = append(statements, statement)
	}
	*s = statements
	return nil
}
