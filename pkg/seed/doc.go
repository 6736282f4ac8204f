// Package seed loads accounts and posts from a YAML document.
//
// A seed document is a sequence of tagged statements:
//
//	- !user
//	  username: alice
//	  password_env: ALICE_PASSWORD
//	  role: admin
//	- !user bob
//	- !grant
//	  user: bob
//	  role: vip
//	- !blog
//	  title: Welcome
//	  author: alice
//	  status: published
//	  content: |
//	    # Hello
//
// Users are created first, then grants are applied, then blogs are written.
// Loading is idempotent: existing users are updated rather than recreated,
// and a blog whose author already has a post with the same title is skipped.
// A user without a password gets a generated one, reported in the Result.
package seed
