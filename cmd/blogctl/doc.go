// Command blogctl runs and administers the blog backend.
//
// The server exposes a JSON REST API for accounts, blog posts and file
// uploads backed by PostgreSQL and a local upload directory.
//
// # Quick Start
//
//	export DATABASE_URL=postgres://postgres@localhost/blog?sslmode=disable
//	export BLOG_JWT_SECRET=$(openssl rand -hex 32)
//
//	# Run database migrations
//	blogctl db migrate
//
//	# Start the server (migrates first unless --no-migrate)
//	blogctl server
//
//	# Promote an account
//	blogctl user set-role alice admin
//
//	# Load accounts and posts from a seed file
//	blogctl seed load -f seed.yml --dry-run
//	blogctl seed load -f seed.yml
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - BLOG_JWT_SECRET: session token signing secret, at least 32 bytes
//   - BLOG_TOKEN_TTL: session validity, e.g. 24h
//   - BLOG_UPLOAD_DIR: upload directory (default: ./uploads)
//   - BLOG_MAX_UPLOAD_SIZE: upload limit in bytes (default: 500MB)
//   - BLOG_UPLOAD_TIMEOUT: time allowed for one upload request (default: 1h)
//   - BLOG_LOG_LEVEL: log level (debug, info, warn, error)
//   - BLOG_PORT / PORT: server port (default: 3000)
//   - BLOG_CONFIG_PATH: directory holding blog.yml (default: /etc/blog)
//   - BLOG_AUDIT_ENABLED: write RFC5424 audit lines to stdout (default: false)
//   - AUDIT_DATABASE_URL: also persist audit messages to this database
package main
